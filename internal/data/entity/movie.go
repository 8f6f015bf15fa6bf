package entity

import (
	"time"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Cast is an ordered list of cast members. Entries are free-form JSON:
// plain names or records.
type Cast []any

type Movie struct {
	Base
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	ReleaseDate time.Time `db:"release_date"`
	Genre       string    `db:"genre"`
	Rating      float64   `db:"rating"`
	Cast        Cast      `db:"cast_members"`
	Director    *string   `db:"director"`
}
