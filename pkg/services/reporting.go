package services

import (
	"context"
)

// RawDocument is one undecoded tax authority payload and the name it was
// stored under (file name or object key).
type RawDocument struct {
	Name string
	Data []byte
}

// DocumentSource supplies raw documents for normalization.
type DocumentSource interface {
	// Load returns every available document. Individual unreadable documents
	// are skipped by the source; an error means the source itself failed.
	Load(ctx context.Context) ([]RawDocument, error)

	// Describe returns a short human-readable location, e.g. a folder path.
	Describe() string
}

// ReturnExporter publishes generated monthly VAT returns.
type ReturnExporter interface {
	ExportMonthly(ctx context.Context, returns []MonthlyReturn) error
}
