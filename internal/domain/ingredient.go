package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a canonical food item produced by a source adapter. Rows are
// append-only: data quality may be refreshed, everything else is immutable,
// and superseding records are added rather than overwritten.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID  string    `gorm:"index" json:"externalId"`
	Source      string    `json:"source"`
	Name        string    `gorm:"index" json:"name"`
	Category    string    `gorm:"index" json:"category"`
	Brand       string    `json:"brand,omitempty"`
	Barcode     string    `gorm:"index" json:"barcode,omitempty"`
	DataQuality float64   `json:"dataQuality"` // 0..1
	CreatedAt   time.Time `json:"createdAt"`
}
