package model

import "time"

// RecordType tags the extraction path that produced a record.
// It is set once at creation and never changed.
type RecordType string

const (
	TypeHTML RecordType = "html"
	TypePDF  RecordType = "pdf"
	TypeMock RecordType = "mock"
)

// Status reflects how close a record's deadline is.
// Urgency is derived from days-to-deadline by callers, not enforced here.
type Status string

const (
	StatusActive    Status = "active"
	StatusUrgent    Status = "urgent"
	StatusCompleted Status = "completed"
)

// DeadlineLayout is the wire format for deadlines (ISO calendar date).
const DeadlineLayout = "2006-01-02"

// DefaultDeadlineDays is the substituted horizon when no deadline can be
// recovered from a source.
const DefaultDeadlineDays = 30

// PolicyRecord is a normalized government consultation or policy document.
// Records persisted by older versions of the tool may lack optional fields,
// so every consumer must tolerate zero values.
type PolicyRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Ministry    string `json:"ministry"`

	// Deadline is always a valid ISO date strictly in the future at
	// extraction time, or the computed today+30 default. Never empty.
	Deadline string `json:"deadline"`

	SourceURL     string `json:"source_url"`
	SourcePageURL string `json:"source_page_url,omitempty"`

	// DiscoveredAt is set once at creation and is immutable thereafter.
	DiscoveredAt time.Time `json:"discovered_at"`

	Status Status     `json:"status"`
	Type   RecordType `json:"type"`

	ExtractedText string `json:"extracted_text,omitempty"`

	// WelfareRelated is a cheap keyword pre-filter, advisory only.
	// It is superseded once Analysis is attached.
	WelfareRelated bool     `json:"welfare_related"`
	Keywords       []string `json:"keywords,omitempty"`

	// Analysis is attached post-hoc by the scoring step. A record with
	// a non-nil Analysis is considered analyzed.
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Analyzed reports whether the external scoring step has run for this record.
func (r *PolicyRecord) Analyzed() bool {
	return r.Analysis != nil
}

// DeadlineTime parses the record deadline. The zero time is returned for
// records whose deadline field is malformed (pre-schema entries).
func (r *PolicyRecord) DeadlineTime() time.Time {
	t, err := time.Parse(DeadlineLayout, r.Deadline)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DaysToDeadline returns whole days from now until the deadline, negative
// if the deadline has passed.
func (r *PolicyRecord) DaysToDeadline(now time.Time) int {
	d := r.DeadlineTime()
	if d.IsZero() {
		return 0
	}
	return int(d.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
}

// DefaultDeadline returns the substituted deadline used when a source
// carries no recoverable date: today + 30 days.
func DefaultDeadline(now time.Time) string {
	return now.AddDate(0, 0, DefaultDeadlineDays).Format(DeadlineLayout)
}

// SameDocument reports ingestion-time identity: two records describe the
// same real-world document when title and ministry match, even if their
// URLs or ids differ.
func (r *PolicyRecord) SameDocument(other *PolicyRecord) bool {
	return r.Title == other.Title && r.Ministry == other.Ministry
}
