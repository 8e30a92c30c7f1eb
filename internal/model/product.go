package model

import "time"

// MaxTitleLength bounds product titles, in runes.
const MaxTitleLength = 255

// Product is an item a producer offers to receivers.
type Product struct {
	ID          int64     `json:"id"`
	ProducerID  int64     `json:"producer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Country     string    `json:"country,omitempty"`
	Location    string    `json:"location,omitempty"`
	Price       int       `json:"price"`
	Available   bool      `json:"available"`
	Rank        int       `json:"rank"`
	CreatedAt   time.Time `json:"created_at"`

	// Applications is only populated by the "with applications" store reads.
	Applications []Application `json:"applications,omitempty"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	// ProducerID restricts to one producer; zero means any
	ProducerID int64

	// AvailableOnly hides withdrawn products
	AvailableOnly bool

	Offset int

	// Limit caps the result size; zero or negative means unbounded
	Limit int
}

// Page is a window over a longer result list.
type Page struct {
	Total int           `json:"total"`
	Items []Application `json:"items"`
}
