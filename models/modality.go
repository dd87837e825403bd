package models

// Modality is a sport played in the tournament (futsal, volleyball, handball...).
type Modality struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
