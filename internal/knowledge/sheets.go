package knowledge

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
)

const defaultSheetsBaseURL = "https://docs.google.com/spreadsheets/d"

// SheetSource fetches the knowledge base from a published spreadsheet via
// its CSV export. The first column holds the question, the second the
// answer; the first row is treated as a header.
type SheetSource struct {
	client  *http.Client
	baseURL string
}

// NewSheetSource constructs a source using the provided HTTP client.
func NewSheetSource(client *http.Client) *SheetSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetSource{client: client, baseURL: defaultSheetsBaseURL}
}

// Fetch downloads and parses the sheet's CSV export.
func (s *SheetSource) Fetch(ctx context.Context, sheetID string) ([]Entry, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("knowledge: sheet id required")
	}
	url := fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv", s.baseURL, sheetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge: fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("knowledge: fetch sheet: unexpected status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("knowledge: parse csv: %w", err)
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 {
			continue
		}
		question := strings.TrimSpace(row[0])
		answer := strings.TrimSpace(row[1])
		if question == "" || answer == "" {
			continue
		}
		entries = append(entries, Entry{Question: question, Answer: answer})
	}
	return entries, nil
}

// WithBaseURL overrides the spreadsheet endpoint, primarily for tests.
func (s *SheetSource) WithBaseURL(base string) *SheetSource {
	s.baseURL = strings.TrimRight(base, "/")
	return s
}
