// Package model defines the core domain types for the pandal gallery.
package model

// Categories advertised to clients. The store does not enforce membership.
const (
	CategoryAll         = "All"
	CategoryTraditional = "Traditional"
	CategoryModern      = "Modern"
	CategoryEcoFriendly = "Eco-Friendly"
	CategoryArtistic    = "Artistic"
	DefaultCategory     = CategoryTraditional
	DefaultImage        = "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop"
	DateLayout          = "2006-01-02"
)

// Categories returns the filter options shown by the gallery, "All" first.
func Categories() []string {
	return []string{CategoryAll, CategoryTraditional, CategoryModern, CategoryEcoFriendly, CategoryArtistic}
}

// Entry is one pandal submission.
type Entry struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
	Likes    int64   `json:"likes"`
	Date     string  `json:"date"`
	Image    string  `json:"image"`
	Pandal   string  `json:"pandal"`
	Category string  `json:"category"`
}

// ListFilter narrows a listing. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Search   string
}

// Stats summarises the whole catalog for the gallery header.
type Stats struct {
	TotalPandals  int     `json:"totalPandals"`
	TotalLikes    int64   `json:"totalLikes"`
	AverageRating float64 `json:"averageRating"`
}

// CreateEntryRequest is the payload for submitting a new pandal.
type CreateEntryRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Pandal   string `json:"pandal"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// LoginRequest is the payload for the login stub.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for the registration stub.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the placeholder account echoed back by the auth stubs.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// AuthResult is the data payload of the auth stubs.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

// Response is the JSON envelope every endpoint returns. Success is always
// present; the other fields are set per endpoint.
type Response struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  string `json:"status,omitempty"`
}

// SeedEntries returns the catalog every process starts from, in store order.
func SeedEntries() []Entry {
	return []Entry{
		{
			ID:       1,
			Title:    "Magnificent Durga Idol at Shivaji Park",
			Location: "Shivaji Park, Dadar",
			Rating:   4.8,
			Likes:    156,
			Date:     "2024-09-15",
			Image:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop",
			Pandal:   "Shivaji Park Sarbojanin",
			Category: CategoryTraditional,
		},
		{
			ID:       2,
			Title:    "Eco-Friendly Theme Pandal",
			Location: "Powai, Mumbai",
			Rating:   4.6,
			Likes:    89,
			Date:     "2024-09-14",
			Image:    "https://images.unsplash.com/photo-1544551763-46a013bb70d5?w=800&h=600&fit=crop",
			Pandal:   "Powai Sarbojanin",
			Category: CategoryEcoFriendly,
		},
	}
}
