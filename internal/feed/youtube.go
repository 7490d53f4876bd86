package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/replydesk/replydesk/internal/comment"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeSource fetches recent top-level comments for a channel from the
// YouTube Data API commentThreads endpoint.
type YouTubeSource struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	maxResults int
}

// NewYouTubeSource constructs a source with API key auth.
func NewYouTubeSource(client *http.Client, apiKey string, maxResults int) *YouTubeSource {
	if client == nil {
		client = http.DefaultClient
	}
	if maxResults <= 0 {
		maxResults = 20
	}
	return &YouTubeSource{
		client:     client,
		apiKey:     apiKey,
		baseURL:    defaultYouTubeBaseURL,
		maxResults: maxResults,
	}
}

// WithBaseURL overrides the API endpoint, primarily for tests.
func (y *YouTubeSource) WithBaseURL(base string) *YouTubeSource {
	y.baseURL = strings.TrimRight(base, "/")
	return y
}

type commentThreadsResponse struct {
	Error *apiError `json:"error"`
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName     string    `json:"authorDisplayName"`
					AuthorProfileImageURL string    `json:"authorProfileImageUrl"`
					TextDisplay           string    `json:"textDisplay"`
					PublishedAt           time.Time `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Fetch returns the channel's most recent comment threads in feed order.
func (y *YouTubeSource) Fetch(ctx context.Context, channelID string) ([]comment.Raw, error) {
	if channelID == "" {
		return nil, &Error{Message: "channel id not configured", AccessRestricted: true}
	}

	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("channelId", channelID)
	query.Set("maxResults", strconv.Itoa(y.maxResults))
	query.Set("order", "time")
	query.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/commentThreads?"+query.Encode(), nil)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, &Error{Message: "comment feed unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	var payload commentThreadsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Message: "malformed feed response: " + err.Error()}
	}
	if payload.Error != nil {
		return nil, &Error{
			Message:          payload.Error.Message,
			AccessRestricted: restrictedCode(payload.Error.Code),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Message:          fmt.Sprintf("comment feed returned status %d", resp.StatusCode),
			AccessRestricted: restrictedCode(resp.StatusCode),
		}
	}

	raws := make([]comment.Raw, 0, len(payload.Items))
	for _, item := range payload.Items {
		snippet := item.Snippet.TopLevelComment.Snippet
		raws = append(raws, comment.Raw{
			ID:           item.ID,
			Author:       snippet.AuthorDisplayName,
			AuthorAvatar: snippet.AuthorProfileImageURL,
			Text:         snippet.TextDisplay,
			PublishedAt:  snippet.PublishedAt,
		})
	}
	return raws, nil
}

func restrictedCode(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// YouTubeReplySink posts replies to top-level comments.
type YouTubeReplySink struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewYouTubeReplySink constructs a sink with API key auth.
func NewYouTubeReplySink(client *http.Client, apiKey string) *YouTubeReplySink {
	if client == nil {
		client = http.DefaultClient
	}
	return &YouTubeReplySink{client: client, apiKey: apiKey, baseURL: defaultYouTubeBaseURL}
}

// WithBaseURL overrides the API endpoint, primarily for tests.
func (y *YouTubeReplySink) WithBaseURL(base string) *YouTubeReplySink {
	y.baseURL = strings.TrimRight(base, "/")
	return y
}

type replyPayload struct {
	Snippet struct {
		ParentID     string `json:"parentId"`
		TextOriginal string `json:"textOriginal"`
	} `json:"snippet"`
}

// Send posts the reply for the given parent comment id.
func (y *YouTubeReplySink) Send(ctx context.Context, commentID, text string) error {
	var payload replyPayload
	payload.Snippet.ParentID = commentID
	payload.Snippet.TextOriginal = text
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := y.baseURL + "/comments?part=snippet&key=" + url.QueryEscape(y.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("feed: post reply: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("feed: post reply: unexpected status %d", resp.StatusCode)
	}
	return nil
}
