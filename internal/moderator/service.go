package moderator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/replydesk/replydesk/internal/comment"
	"github.com/replydesk/replydesk/internal/draft"
	"github.com/replydesk/replydesk/internal/feed"
	"github.com/replydesk/replydesk/internal/knowledge"
	"github.com/replydesk/replydesk/internal/snapshot"
)

// ErrReplyFailed indicates the reply sink refused a delivery; the comment
// keeps its prior state and the caller decides whether to retry.
var ErrReplyFailed = errors.New("moderator: reply delivery failed")

// DegradedDraftNotice replaces the draft when generation fails for a
// single item; the comment stays pending for a human to handle.
const DegradedDraftNotice = "Automatic drafting was unavailable for this comment. Please write a reply manually."

// ImportResult reports the outcome of one import batch.
type ImportResult struct {
	Fetched  int `json:"fetched"`
	Accepted int `json:"accepted"`
}

// Service is the moderation orchestrator. It pulls candidate comments
// from the feed, coordinates concurrent draft generation over an
// immutable knowledge base snapshot, applies the auto-pilot policy and
// merges each batch into the comment store in one step.
type Service struct {
	comments  *comment.Store
	kb        *knowledge.Store
	source    feed.Source
	sink      feed.ReplySink
	generator draft.Generator
	kbSource  knowledge.Source
	snapshots snapshot.Store
	logger    interface {
		Printf(string, ...any)
	}
	maxDrafts int

	settingsMu sync.RWMutex
	settings   comment.AppSettings
}

// Options carries the collaborators wired into a Service.
type Options struct {
	Comments  *comment.Store
	Knowledge *knowledge.Store
	Source    feed.Source
	Sink      feed.ReplySink
	Generator draft.Generator
	KBSource  knowledge.Source
	// Snapshots is optional; when set, state is persisted after every
	// mutating operation.
	Snapshots snapshot.Store
	Settings  comment.AppSettings
	// MaxConcurrentDrafts bounds the drafting fan-out per import batch.
	MaxConcurrentDrafts int
	Logger              interface {
		Printf(string, ...any)
	}
}

// NewService wires the orchestrator.
func NewService(opts Options) *Service {
	if opts.Comments == nil {
		opts.Comments = comment.NewStore()
	}
	if opts.Knowledge == nil {
		opts.Knowledge = knowledge.NewStore()
	}
	if opts.MaxConcurrentDrafts <= 0 {
		opts.MaxConcurrentDrafts = 4
	}
	return &Service{
		comments:  opts.Comments,
		kb:        opts.Knowledge,
		source:    opts.Source,
		sink:      opts.Sink,
		generator: opts.Generator,
		kbSource:  opts.KBSource,
		snapshots: opts.Snapshots,
		settings:  opts.Settings,
		maxDrafts: opts.MaxConcurrentDrafts,
		logger:    opts.Logger,
	}
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() comment.AppSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

// SettingsPatch holds optional settings updates; nil fields are left
// untouched.
type SettingsPatch struct {
	AutoPilot *bool   `json:"auto_pilot,omitempty"`
	SheetID   *string `json:"sheet_id,omitempty"`
	ChannelID *string `json:"channel_id,omitempty"`
}

// UpdateSettings applies a patch and persists the session.
func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) comment.AppSettings {
	s.settingsMu.Lock()
	if patch.AutoPilot != nil {
		s.settings.AutoPilot = *patch.AutoPilot
	}
	if patch.SheetID != nil {
		s.settings.SheetID = *patch.SheetID
	}
	if patch.ChannelID != nil {
		s.settings.ChannelID = *patch.ChannelID
	}
	updated := s.settings
	s.settingsMu.Unlock()

	s.persist(ctx)
	return updated
}

// Import runs one batch: fetch, dedupe, concurrent drafting, policy gate,
// merge. A wholesale feed failure aborts the batch and surfaces as a
// *feed.Error; per-item drafting or delivery failures only degrade the
// affected item to pending.
func (s *Service) Import(ctx context.Context) (ImportResult, error) {
	settings := s.Settings()
	kbSnapshot := s.kb.Snapshot()

	fetched, err := s.source.Fetch(ctx, settings.ChannelID)
	if err != nil {
		importFailuresCounter.Inc()
		var feedErr *feed.Error
		if errors.As(err, &feedErr) {
			return ImportResult{}, feedErr
		}
		return ImportResult{}, &feed.Error{Message: err.Error()}
	}

	fresh := s.dedupe(fetched)
	if len(fresh) == 0 {
		return ImportResult{Fetched: len(fetched)}, nil
	}

	// Fan out drafting; each slot is written by exactly one goroutine, so
	// no item ever observes another item's result.
	drafted := make([]comment.Comment, len(fresh))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxDrafts)
	for i, raw := range fresh {
		group.Go(func() error {
			drafted[i] = s.processItem(groupCtx, raw, kbSnapshot, settings)
			return nil
		})
	}
	_ = group.Wait() // item workers never return an error

	accepted := s.comments.Merge(drafted)
	commentsImportedCounter.Add(float64(accepted))
	s.persist(ctx)
	return ImportResult{Fetched: len(fetched), Accepted: accepted}, nil
}

// dedupe removes items already present in the store and duplicate ids
// inside the batch, preserving feed order.
func (s *Service) dedupe(fetched []comment.Raw) []comment.Raw {
	fresh := make([]comment.Raw, 0, len(fetched))
	seen := make(map[string]struct{}, len(fetched))
	for _, raw := range fetched {
		if _, dup := seen[raw.ID]; dup {
			continue
		}
		seen[raw.ID] = struct{}{}
		if s.comments.Contains(raw.ID) {
			continue
		}
		fresh = append(fresh, raw)
	}
	return fresh
}

func (s *Service) processItem(ctx context.Context, raw comment.Raw, kb []knowledge.Entry, settings comment.AppSettings) comment.Comment {
	result, err := s.generator.Draft(ctx, raw.Text, kb)
	if err != nil {
		draftsDegradedCounter.Inc()
		s.logf("draft for %s degraded: %v", raw.ID, err)
		return comment.NewPending(raw, DegradedDraftNotice, 0)
	}

	score := ClampScore(result.Score)
	drafted := comment.NewPending(raw, result.Text, score)
	if !AutoPilotAllows(settings.AutoPilot, score) {
		return drafted
	}

	if err := s.sink.Send(ctx, raw.ID, result.Text); err != nil {
		// Draft is kept and the comment stays pending; a human can still
		// act on it. No automatic retry.
		replyFailuresCounter.Inc()
		s.logf("auto reply for %s failed: %v", raw.ID, err)
		return drafted
	}
	autoRepliesCounter.Inc()
	return drafted.AutoResponded(result.Text)
}

// Approve delivers a reply for a pending comment and marks it approved.
// An empty editedText falls back to the stored draft. The comment is not
// mutated unless delivery succeeds.
func (s *Service) Approve(ctx context.Context, id, editedText, operator string) (comment.Comment, error) {
	current, ok := s.comments.Get(id)
	if !ok {
		return comment.Comment{}, comment.ErrNotFound
	}
	if current.Status.Terminal() {
		return comment.Comment{}, comment.ErrTerminalStatus
	}

	text := editedText
	if text == "" {
		text = current.DraftResponse
	}
	if operator == "" {
		operator = "moderator"
	}
	if err := s.sink.Send(ctx, id, text); err != nil {
		replyFailuresCounter.Inc()
		return comment.Comment{}, fmt.Errorf("%w: %v", ErrReplyFailed, err)
	}

	updated, err := s.comments.Approve(id, text, operator)
	if err != nil {
		return comment.Comment{}, err
	}
	s.persist(ctx)
	return updated, nil
}

// Reject marks a pending comment rejected. The draft is retained.
func (s *Service) Reject(ctx context.Context, id string) (comment.Comment, error) {
	updated, err := s.comments.Reject(id)
	if err != nil {
		return comment.Comment{}, err
	}
	s.persist(ctx)
	return updated, nil
}

// Comments returns a snapshot of the store, optionally filtered by status.
func (s *Service) Comments(status comment.Status) []comment.Comment {
	all := s.comments.All()
	if status == "" {
		return all
	}
	filtered := make([]comment.Comment, 0, len(all))
	for _, c := range all {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Metrics recomputes the dashboard figures from the store.
func (s *Service) Metrics() comment.DashboardMetrics {
	return comment.ComputeMetrics(s.comments.All())
}

// RefreshKnowledgeBase replaces the knowledge base snapshot from the
// configured sheet. Fetch errors degrade to an empty knowledge base, so
// drafting stays possible at lower confidence. Returns the entry count.
func (s *Service) RefreshKnowledgeBase(ctx context.Context) int {
	settings := s.Settings()
	entries, err := s.kbSource.Fetch(ctx, settings.SheetID)
	if err != nil {
		s.logf("knowledge base refresh failed, continuing without: %v", err)
		s.kb.Replace(nil)
		return 0
	}
	s.kb.Replace(entries)
	return len(entries)
}

// Snapshot exports the full session state for persistence.
func (s *Service) Snapshot() snapshot.State {
	return snapshot.State{
		Comments: s.comments.All(),
		Settings: s.Settings(),
	}
}

// Restore installs a previously persisted session as the initial state.
func (s *Service) Restore(state snapshot.State) {
	s.comments.Replace(state.Comments)
	s.settingsMu.Lock()
	s.settings = state.Settings
	s.settingsMu.Unlock()
}

// persist rewrites the session snapshot. Persistence failures are logged
// and never fail the triggering operation.
func (s *Service) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.Snapshot()); err != nil {
		s.logf("persist session: %v", err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
