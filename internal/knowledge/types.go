package knowledge

import "context"

// Entry is one question/answer pair from the support knowledge base.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Source fetches the full knowledge base for a sheet identifier.
type Source interface {
	Fetch(ctx context.Context, sheetID string) ([]Entry, error)
}
