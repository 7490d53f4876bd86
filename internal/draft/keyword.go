package draft

import (
	"context"
	"strings"
	"unicode"

	"github.com/replydesk/replydesk/internal/knowledge"
)

const noMatchReply = "Thanks for reaching out! We'll look into this and get back to you shortly."

// Keyword is an offline generator used in demonstration mode: it answers
// with the knowledge base entry sharing the most words with the comment
// and scores confidence by that overlap. No network calls involved.
type Keyword struct{}

// NewKeyword constructs the offline generator.
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Draft picks the best-overlapping knowledge base answer.
func (k *Keyword) Draft(_ context.Context, commentText string, kb []knowledge.Entry) (Result, error) {
	words := tokenize(commentText)
	if len(words) == 0 || len(kb) == 0 {
		return Result{Text: noMatchReply, Score: 0}, nil
	}

	best := -1
	bestOverlap := 0
	for i, entry := range kb {
		overlap := 0
		questionWords := tokenize(entry.Question)
		for w := range words {
			if _, ok := questionWords[w]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = i
		}
	}
	if best < 0 {
		return Result{Text: noMatchReply, Score: 10}, nil
	}

	score := bestOverlap * 100 / len(words)
	if score > 100 {
		score = 100
	}
	return Result{Text: kb[best].Answer, Score: score}, nil
}

// tokenize lowercases and splits on non-letter boundaries, dropping words
// too short to be meaningful.
func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		out[f] = struct{}{}
	}
	return out
}
