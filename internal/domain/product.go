package domain

import "time"

// Product is a catalogue item sold in the store. Prices are whole credits.
// Description and Category are optional; the empty string means absent.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductFilter narrows a catalogue listing. Zero values mean "no filter";
// Featured is a pointer so that false can be matched explicitly.
type ProductFilter struct {
	Category string
	Featured *bool
	Search   string
	Page     int
	Limit    int
}

// Pagination is the metadata returned alongside every paginated listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination derives the page metadata from a total row count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
