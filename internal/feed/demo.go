package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/replydesk/replydesk/internal/comment"
)

// Demo questions lean on the commerce-support domain so drafting against
// a typical knowledge base produces believable confidence spreads.
var demoQuestions = []string{
	"How do I track my order from the portal?",
	"What is the return policy for international shipping?",
	"Do you offer discounts for bulk purchases?",
	"Can I change the delivery address after checkout?",
	"Is cash on delivery available in my region?",
	"Great video! Keep it up.",
	"How long does a refund take to show up?",
	"Where can I download my invoice?",
}

// DemoSource fabricates a plausible comment batch. It backs the safe
// demonstration mode reachable after an access-restricted feed failure.
type DemoSource struct {
	batchSize int
}

// NewDemoSource constructs a demo source producing batches of the given size.
func NewDemoSource(batchSize int) *DemoSource {
	if batchSize <= 0 || batchSize > len(demoQuestions) {
		batchSize = 5
	}
	return &DemoSource{batchSize: batchSize}
}

// Fetch returns a fresh batch of fabricated comments, newest first.
func (d *DemoSource) Fetch(_ context.Context, _ string) ([]comment.Raw, error) {
	now := time.Now().UTC()
	raws := make([]comment.Raw, 0, d.batchSize)
	for i := 0; i < d.batchSize; i++ {
		seed := gofakeit.Number(1, 10000)
		raws = append(raws, comment.Raw{
			ID:           "demo-" + uuid.NewString(),
			Author:       gofakeit.Name(),
			AuthorAvatar: fmt.Sprintf("https://picsum.photos/seed/%d/100/100", seed),
			Text:         demoQuestions[i%len(demoQuestions)],
			PublishedAt:  now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return raws, nil
}

// DemoReplySink records nothing and always succeeds.
type DemoReplySink struct {
	logger interface {
		Printf(string, ...any)
	}
}

// NewDemoReplySink constructs a sink that logs deliveries instead of
// performing them.
func NewDemoReplySink(logger interface {
	Printf(string, ...any)
}) *DemoReplySink {
	return &DemoReplySink{logger: logger}
}

// Send logs the simulated delivery.
func (d *DemoReplySink) Send(_ context.Context, commentID, text string) error {
	if d.logger != nil {
		d.logger.Printf("demo reply to %s: %s", commentID, text)
	}
	return nil
}
