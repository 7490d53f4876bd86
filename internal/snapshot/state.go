package snapshot

import (
	"context"

	"github.com/replydesk/replydesk/internal/comment"
)

// State is the persisted session layout: the full comment list plus the
// operator settings, written after every mutating operation and loaded at
// startup.
type State struct {
	Comments []comment.Comment   `json:"comments"`
	Settings comment.AppSettings `json:"settings"`
}

// Store persists and restores session state.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
