package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Record is one completed portrait generation event.
//
// Image fields hold the full inline payload (a data URI with base64-encoded
// image bytes), not a reference to external storage. Unbounded table growth
// is an accepted operational characteristic.
type Record struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Dealer         string    `json:"dealer"`
	Showroom       string    `json:"showroom"`
	ImageFront     string    `json:"image_front"`
	ImageSide      string    `json:"image_side"`
	ImageFull      string    `json:"image_full"`
	BackgroundType string    `json:"background_type"`
	CreatedAt      time.Time `json:"created_at"`
}
