package domain

import "context"

// ExternalRecord is one raw hit from an external food-data API. Payload holds
// the source-specific document; only the adapter that produced the record
// knows how to normalize it.
type ExternalRecord struct {
	ExternalID  string
	Description string
	Category    string
	Brand       string
	Barcode     string
	Payload     any
}

// NormalizedFood is an adapter's output: a source-independent ingredient
// plus its per-100-gram nutrients in the canonical vocabulary.
type NormalizedFood struct {
	ExternalID  string
	Source      string
	Name        string
	Category    string
	Brand       string
	Barcode     string
	Nutrients   Nutrients
	Confidence  float64
	DataQuality float64
}

// SourceAdapter is one external food-data source: fetch plus transform.
// Adapters never touch the store; the ETL runner persists their output.
type SourceAdapter interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]ExternalRecord, error)
	FetchByID(ctx context.Context, id string) (*ExternalRecord, error)
	Normalize(rec *ExternalRecord) (*NormalizedFood, error)
}
