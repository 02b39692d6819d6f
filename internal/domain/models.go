package domain

import "time"

// DefaultCollection is the store path new records are appended under.
const DefaultCollection = "users"

// ISOMillis is the layout used for SubmittedAtISO. It matches the
// millisecond-precision UTC strings already present in the collection,
// e.g. "2025-03-01T09:30:00.123Z".
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// Field names as they appear on the form and on the wire.
const (
	FieldName    = "name"
	FieldRoll    = "roll"
	FieldBranch  = "branch"
	FieldCollege = "college"
	FieldEmail   = "email"
	FieldMobile  = "mobile"
)

// Fields lists the six user-supplied fields in display order.
var Fields = []string{FieldName, FieldRoll, FieldBranch, FieldCollege, FieldEmail, FieldMobile}

// Lead holds the six identity fields a visitor types into the form.
type Lead struct {
	Name        string `json:"name"`
	RollNumber  string `json:"roll"`
	Branch      string `json:"branch"`
	Institution string `json:"college"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
}

// Get returns the value of the named form field.
func (l Lead) Get(field string) string {
	switch field {
	case FieldName:
		return l.Name
	case FieldRoll:
		return l.RollNumber
	case FieldBranch:
		return l.Branch
	case FieldCollege:
		return l.Institution
	case FieldEmail:
		return l.Email
	case FieldMobile:
		return l.Mobile
	}
	return ""
}

// Set assigns the named form field. Unknown names are ignored.
func (l *Lead) Set(field, value string) {
	switch field {
	case FieldName:
		l.Name = value
	case FieldRoll:
		l.RollNumber = value
	case FieldBranch:
		l.Branch = value
	case FieldCollege:
		l.Institution = value
	case FieldEmail:
		l.Email = value
	case FieldMobile:
		l.Mobile = value
	}
}

// SubmissionRecord is one validated submission as persisted to the store.
// The timestamps are assigned once, at write time.
type SubmissionRecord struct {
	Lead
	SubmittedAtEpochMillis int64  `json:"timestamp"`
	SubmittedAtISO         string `json:"createdAt"`
}

// NewRecord stamps a validated lead with the write instant.
func NewRecord(l Lead, now time.Time) SubmissionRecord {
	return SubmissionRecord{
		Lead:                   l,
		SubmittedAtEpochMillis: now.UnixMilli(),
		SubmittedAtISO:         now.UTC().Format(ISOMillis),
	}
}

// StoredRecord pairs a record with the key the store minted for it.
type StoredRecord struct {
	Key string
	SubmissionRecord
}

// Result is the outcome handed back across the form submission boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
