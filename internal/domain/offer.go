package domain

// Store identifies which retail backend an offer came from.
type Store string

const (
	StoreWalmart Store = "Walmart"
	StoreTarget  Store = "Target"
)

// Offer represents one normalized product/price result from a retail backend.
// Offers are produced only by store adapters and never mutated afterwards.
type Offer struct {
	Store Store   `json:"store"`
	Name  string  `json:"name"`
	Price float64 `json:"price"` // non-negative, rounded to 2 decimal places
	URL   string  `json:"url"`
	Image string  `json:"image,omitempty"`
}

// SearchRequest is a validated, normalized product search. Immutable once
// produced by the validator.
type SearchRequest struct {
	Item       string
	Latitude   *float64
	Longitude  *float64
	PostalCode string
}

// HasCoordinates reports whether both latitude and longitude were provided.
func (r *SearchRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Location carries the geographic context passed to store adapters.
// StoreID is the backend-specific store identifier resolved for this request,
// empty when resolution was skipped or failed.
type Location struct {
	Latitude   *float64
	Longitude  *float64
	PostalCode string
	StoreID    string
}
