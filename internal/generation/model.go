package generation

import (
	"strings"
	"time"
)

// DocumentType selects which builder a request is routed to.
type DocumentType string

const (
	TypeSpreadsheet DocumentType = "spreadsheet"
	TypeSlideDeck   DocumentType = "slidedeck"
)

// ParseDocumentType normalizes a request's document type value.
func ParseDocumentType(raw string) (DocumentType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "spreadsheet", "excel", "xlsx":
		return TypeSpreadsheet, true
	case "slidedeck", "ppt", "pptx", "powerpoint":
		return TypeSlideDeck, true
	default:
		return "", false
	}
}

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DocumentRequest is an accepted generation request. Immutable once submitted.
type DocumentRequest struct {
	Title             string
	Content           string
	DocumentType      DocumentType
	TemplateName      string
	Sections          []string
	AdditionalOptions map[string]string
}

// Job tracks one generation request from submission to its terminal state.
// Exactly one of the completed fields (FileName/FileURL/DownloadURL) or
// ErrorMessage is ever populated.
type Job struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	FileName     string     `json:"fileName,omitempty"`
	FileURL      string     `json:"fileUrl,omitempty"`
	DownloadURL  string     `json:"downloadUrl,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// Terminal reports whether the job has reached its final state.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// NotFoundJob is the well-formed record returned for unknown job ids, so
// status lookups stay total over the id space.
func NotFoundJob(jobID string) Job {
	now := time.Now().UTC()
	return Job{
		ID:           jobID,
		Title:        "Unknown",
		Status:       StatusFailed,
		CreatedAt:    now,
		CompletedAt:  &now,
		ErrorMessage: "document job not found",
	}
}
