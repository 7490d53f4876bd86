package draft

import (
	"context"

	"github.com/replydesk/replydesk/internal/knowledge"
)

// Result is a drafted reply together with the generator's confidence that
// the reply actually answers the comment, on a 0-100 scale.
type Result struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// Generator produces a suggested reply for a comment body against the
// given knowledge base snapshot. A normal "no match" case is not an
// error: implementations return a low-confidence generic draft instead.
// Only configuration or transport failures surface as errors.
type Generator interface {
	Draft(ctx context.Context, commentText string, kb []knowledge.Entry) (Result, error)
}
