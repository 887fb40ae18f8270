package dtos

// -------- offer listing ----------------------------------------------------

// OfferListResponse is one page of the upstream offers listing. Articles are
// not independently listable; they only appear as line items inside offers.
type OfferListResponse struct {
	Items      []Offer `json:"items"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	TotalItems int     `json:"totalItems"`
}

type Offer struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Client    *OfferClient    `json:"client"` // nullable, only with include=client
	LineItems []OfferLineItem `json:"lineItems"`
}

type OfferClient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// OfferLineItem carries the article identity plus the free-text name the
// pattern extractor works on. Position preserves the order within the offer,
// which the parent/child linker relies on.
type OfferLineItem struct {
	ArticleID   string  `json:"articleId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Quantity    float64 `json:"quantity"`
	Position    int     `json:"position"`
}
