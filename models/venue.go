package models

// Venue is a court or field. Registration order (ID) matters: it drives the
// default modality mapping and the fallback venue.
type Venue struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
