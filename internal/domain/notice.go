package domain

import "time"

// NoticeKind groups log/notification events.
type NoticeKind string

const (
	NoticeInfo     NoticeKind = "info"
	NoticeAccepted NoticeKind = "accepted"
	NoticeRejected NoticeKind = "rejected"
	NoticeError    NoticeKind = "error"
)

// Notice is a user-facing log line. Err carries the failure behind
// rejected and error notices.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
	At      time.Time
}

// NewNotice stamps a notice with the current time.
func NewNotice(kind NoticeKind, message string) Notice {
	return Notice{Kind: kind, Message: message, At: time.Now()}
}

// NewRejectionNotice reports a server refusal. The message is the reason verbatim.
func NewRejectionNotice(reason string) Notice {
	n := NewNotice(NoticeRejected, reason)
	n.Err = &Rejection{Reason: reason}
	return n
}

// NewErrorNotice reports a failed local action.
func NewErrorNotice(err error) Notice {
	n := NewNotice(NoticeError, err.Error())
	n.Err = err
	return n
}

// JournalEntry is the persisted form of a Notice.
type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"index" json:"session_id"` // one per logical connection
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
