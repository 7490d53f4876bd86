package comment

import (
	"errors"
	"strings"
	"time"
)

// Status captures the moderation lifecycle for an inbound comment.
type Status string

const (
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusAutoResponded Status = "auto_responded"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusAutoResponded:
		return true
	}
	return false
}

// ParseStatus converts string representations into a Status value.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(value) {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusApproved):
		return StatusApproved, nil
	case string(StatusRejected):
		return StatusRejected, nil
	case string(StatusAutoResponded):
		return StatusAutoResponded, nil
	default:
		return "", errors.New("unknown status")
	}
}

// Raw is a feed item before drafting: the fields the feed source reports
// about an inbound comment, with no moderation outcome attached yet.
type Raw struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Text         string    `json:"text"`
	PublishedAt  time.Time `json:"published_at"`
}

// Comment is one inbound item together with its moderation outcome.
//
// ActualResponse is set exactly when the status becomes approved or
// auto_responded. ApprovedBy is set only on a manual approval.
// DraftResponse persists across rejection for audit.
type Comment struct {
	ID             string    `json:"id"`
	Author         string    `json:"author"`
	AuthorAvatar   string    `json:"author_avatar,omitempty"`
	Text           string    `json:"text"`
	PublishedAt    time.Time `json:"published_at"`
	Status         Status    `json:"status"`
	DraftResponse  string    `json:"draft_response,omitempty"`
	ActualResponse string    `json:"actual_response,omitempty"`
	AccuracyScore  int       `json:"accuracy_score"`
	ApprovedBy     string    `json:"approved_by,omitempty"`
}

// NewPending builds a freshly drafted comment in the initial state.
func NewPending(raw Raw, draft string, score int) Comment {
	return Comment{
		ID:            raw.ID,
		Author:        raw.Author,
		AuthorAvatar:  raw.AuthorAvatar,
		Text:          raw.Text,
		PublishedAt:   raw.PublishedAt,
		Status:        StatusPending,
		DraftResponse: draft,
		AccuracyScore: score,
	}
}

// AutoResponded marks the comment as answered unattended with the given
// reply. Only meaningful on a pending comment during import.
func (c Comment) AutoResponded(reply string) Comment {
	c.Status = StatusAutoResponded
	c.ActualResponse = reply
	return c
}

// AppSettings holds the operator-tunable knobs that travel with the
// persisted session snapshot.
type AppSettings struct {
	AutoPilot bool   `json:"auto_pilot" yaml:"auto_pilot"`
	SheetID   string `json:"sheet_id" yaml:"sheet_id"`
	ChannelID string `json:"channel_id" yaml:"channel_id"`
}
