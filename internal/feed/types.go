package feed

import (
	"context"

	"github.com/replydesk/replydesk/internal/comment"
)

// Source produces a batch of candidate comments on demand.
type Source interface {
	Fetch(ctx context.Context, channelID string) ([]comment.Raw, error)
}

// ReplySink attempts to deliver a reply for a comment id. Delivery has no
// partial success and is safe to retry from the caller's side; the
// orchestrator itself never retries automatically.
type ReplySink interface {
	Send(ctx context.Context, commentID, text string) error
}

// Error is a wholesale feed failure: no comments were produced.
// AccessRestricted distinguishes credential or permission problems from
// transient transport errors, so the caller can offer a fallback mode.
type Error struct {
	Message          string
	AccessRestricted bool
}

func (e *Error) Error() string {
	return "feed: " + e.Message
}
