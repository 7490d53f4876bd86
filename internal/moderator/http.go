package moderator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/replydesk/replydesk/internal/comment"
	"github.com/replydesk/replydesk/internal/feed"
)

const commentByIDPrefix = "/comments/"

// Handler returns the HTTP handler for the moderation API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/import", s.handleImport)
	mux.HandleFunc("/comments", s.handleComments)
	mux.HandleFunc(commentByIDPrefix, s.handleCommentByID)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/knowledge/refresh", s.handleKnowledgeRefresh)
	mux.HandleFunc("/settings", s.handleSettings)
	return mux
}

func (s *Service) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		headerAllow(w, http.MethodPost)
		return
	}
	result, err := s.Import(r.Context())
	if err != nil {
		var feedErr *feed.Error
		if errors.As(err, &feedErr) {
			status := http.StatusBadGateway
			if feedErr.AccessRestricted {
				status = http.StatusForbidden
			}
			writeJSON(w, status, map[string]any{
				"error":             feedErr.Message,
				"access_restricted": feedErr.AccessRestricted,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		headerAllow(w, http.MethodGet)
		return
	}
	var status comment.Status
	if value := r.URL.Query().Get("status"); value != "" {
		parsed, err := comment.ParseStatus(value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}
	writeJSON(w, http.StatusOK, s.Comments(status))
}

type approvePayload struct {
	Response  string `json:"response"`
	Moderator string `json:"moderator"`
}

func (s *Service) handleCommentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, commentByIDPrefix)
	id, action, found := strings.Cut(rest, "/")
	if !found || id == "" || strings.Contains(action, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		headerAllow(w, http.MethodPost)
		return
	}
	switch action {
	case "approve":
		s.handleApprove(w, r, id)
	case "reject":
		s.handleReject(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Service) handleApprove(w http.ResponseWriter, r *http.Request, id string) {
	defer r.Body.Close()
	var payload approvePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json payload", http.StatusBadRequest)
		return
	}
	updated, err := s.Approve(r.Context(), id, payload.Response, payload.Moderator)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Service) handleReject(w http.ResponseWriter, r *http.Request, id string) {
	updated, err := s.Reject(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		headerAllow(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, s.Metrics())
}

func (s *Service) handleKnowledgeRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		headerAllow(w, http.MethodPost)
		return
	}
	count := s.RefreshKnowledgeBase(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"entries": count})
}

func (s *Service) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.Settings())
	case http.MethodPatch:
		defer r.Body.Close()
		var patch SettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json payload", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.UpdateSettings(r.Context(), patch))
	default:
		headerAllow(w, http.MethodGet, http.MethodPatch)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comment.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, comment.ErrTerminalStatus):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrReplyFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func headerAllow(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
