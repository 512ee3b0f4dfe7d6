// Package compliance reports advisory anomalies in normalized records. It
// never corrects or mutates what it checks.
package compliance

import (
	"taxengine/pkg/models"
)

// Flag types.
const (
	TypeWarning         = "WARNING"
	TypeMissingSequence = "MISSING_SEQUENCE"
)

// Flag codes.
const (
	CodeMissingSequence       = "MISSING_SEQUENCE"
	CodeSuspiciousZeroVAT     = "SUSPICIOUS_ZERO_VAT"
	CodeUnclassifiedDirection = "UNCLASSIFIED_DIRECTION"
)

// Flag is one finding.
type Flag struct {
	Type      string           `json:"type"`
	Code      string           `json:"code"`
	Direction models.Direction `json:"direction,omitempty"`
	InvoiceID string           `json:"uuid,omitempty"`
	Message   string           `json:"message"`

	// Gap bounds, set on sequence flags only: the last number seen before
	// the gap and the first one after it.
	FromID string `json:"fromId,omitempty"`
	ToID   string `json:"toId,omitempty"`
}

// Review is a single record with the findings attached.
type Review struct {
	Invoice models.Invoice `json:"invoice"`
	Flags   []Flag         `json:"complianceFlags"`
	IsValid bool           `json:"isValid"`
}
