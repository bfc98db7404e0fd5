package domain

import "time"

type DisputeType string

const (
	DisputeTypeDamage            DisputeType = "DAMAGE"
	DisputeTypeLateReturn        DisputeType = "LATE_RETURN"
	DisputeTypePayment           DisputeType = "PAYMENT"
	DisputeTypeConditionMismatch DisputeType = "CONDITION_MISMATCH"
	DisputeTypeUnavailable       DisputeType = "UNAVAILABLE"
	DisputeTypeOther             DisputeType = "OTHER"
)

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "OPEN"
	DisputeStatusUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolved    DisputeStatus = "RESOLVED"
	DisputeStatusClosed      DisputeStatus = "CLOSED"
)

// Open reports whether the dispute still suspends automatic settlement.
func (s DisputeStatus) Open() bool {
	return s == DisputeStatusOpen || s == DisputeStatusUnderReview
}

type DisputePriority string

const (
	DisputePriorityLow    DisputePriority = "LOW"
	DisputePriorityMedium DisputePriority = "MEDIUM"
	DisputePriorityHigh   DisputePriority = "HIGH"
	DisputePriorityUrgent DisputePriority = "URGENT"
)

type EvidenceType string

const (
	EvidenceTypePhoto          EvidenceType = "PHOTO"
	EvidenceTypeDocument       EvidenceType = "DOCUMENT"
	EvidenceTypeVideo          EvidenceType = "VIDEO"
	EvidenceTypeChatScreenshot EvidenceType = "CHAT_SCREENSHOT"
)

type Evidence struct {
	ID          string       `json:"id"`
	Type        EvidenceType `json:"type"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
	UploadedAt  time.Time    `json:"uploaded_at"`
}

type DisputeComment struct {
	ID        int32     `json:"id"`
	DisputeID int32     `json:"dispute_id"`
	UserID    int32     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedOn time.Time `json:"created_on"`
}

// Resolution is the manual decision that overrides automatic deposit math.
// It does not itself move money; the resolving operator posts a separate
// compensating ledger entry.
type Resolution struct {
	Decision               string    `json:"decision"`
	CompensationAmountCents int64    `json:"compensation_amount_cents"`
	ResolvedBy             int32     `json:"resolved_by"`
	ResolvedAt             time.Time `json:"resolved_at"`
	Notes                  string    `json:"notes,omitempty"`
}

type Dispute struct {
	ID          int32           `json:"id"`
	RentalID    int32           `json:"rental_id"`
	RaisedBy    int32           `json:"raised_by"`
	AgainstUser int32           `json:"against_user"`
	Type        DisputeType     `json:"type"`
	Status      DisputeStatus   `json:"status"`
	Priority    DisputePriority `json:"priority"`
	Description string          `json:"description"`
	Evidence    []Evidence      `json:"evidence,omitempty"`
	Resolution  *Resolution     `json:"resolution,omitempty"`
	Comments    []DisputeComment `json:"comments,omitempty"`
	CreatedOn   time.Time       `json:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"`
}
