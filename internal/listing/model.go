// Package listing contains the core business logic of the listing engine:
// ranking and pagination, the boost cooldown state machine, and duplicate
// submission detection. It is transport-agnostic and depends on the
// relational store only through the Repository contract.
package listing

import "time"

// Listing is a job posting with its owner, location and category embedded.
// The relational store owns its lifecycle; the engine only reads, ranks and
// boosts it.
type Listing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Salary      string     `json:"salary"` // free text, e.g. "60 per hour"
	Phone       string     `json:"phone"`
	OwnerID     string     `json:"ownerId"`
	Owner       Owner      `json:"owner"`
	LocationID  string     `json:"locationId"`
	CategoryID  string     `json:"categoryId"`
	Shuttle     bool       `json:"shuttle"`
	Meals       bool       `json:"meals"`
	ImageURL    *string    `json:"imageUrl"`
	BoostedAt   *time.Time `json:"boostedAt"` // always <= now when set
	CreatedAt   time.Time  `json:"createdAt"`
}

// Owner is the read-only caller view: identity plus the premium flags that
// affect ranking.
type Owner struct {
	ID            string `json:"id"`
	Premium       bool   `json:"premium"`
	PremiumDeluxe bool   `json:"premiumDeluxe"`
}

// IsPremium reports whether the owner holds any premium tier. Either tier
// ranks the same; the deluxe variant differs only outside the engine.
func (o Owner) IsPremium() bool { return o.Premium || o.PremiumDeluxe }

// Filter is the AND-combined set of optional listing filters.
type Filter struct {
	CategoryID string
	LocationID string
	MinSalary  *int // threshold against the leading digits of Salary
	Shuttle    *bool
	Meals      *bool
}

// Page is one ranked, paginated view of the filtered listings.
type Page struct {
	Items      []Listing `json:"items"`
	TotalCount int       `json:"totalCount"`
	PageCount  int       `json:"pageCount"`
}

// NewListing carries the caller-supplied fields of a create request.
type NewListing struct {
	Title       string
	Description string
	Salary      string
	Phone       string
	OwnerID     string
	LocationID  string
	CategoryID  string
	Shuttle     bool
	Meals       bool
	ImageURL    *string
}

// TitleDescription is the lightweight projection used by the duplicate
// detector.
type TitleDescription struct {
	Title       string
	Description string
}
