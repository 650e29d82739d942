package models

// Supported font and layout variants. The language model is instructed to pick
// from these; anything else is rejected at the parse boundary.
const (
	FontModern  = "modern"
	FontClassic = "classic"
	FontPlayful = "playful"

	LayoutMinimal = "minimal"
	LayoutBold    = "bold"
	LayoutElegant = "elegant"
)

// ProductImages holds optional image references (URLs or data URIs) per angle.
type ProductImages struct {
	Front string `json:"front,omitempty"`
	Back  string `json:"back,omitempty"`
	Side  string `json:"side,omitempty"`
}

// Product is a single generated store item. Unlike persisted entities it is
// identified by a small integer assigned by the model, not a UUID.
type Product struct {
	ID          int           `json:"id"`
	Name        string        `json:"name" validate:"required,min=1,max=100"`
	Description string        `json:"description" validate:"required,min=1,max=500"`
	Price       float64       `json:"price" validate:"gte=0,lte=999999"`
	Images      ProductImages `json:"images"`
}

// Customization is the set of visual parameters applied to the store preview.
// It is a closed struct on purpose: schema drift from the model provider is
// caught here instead of leaking into the client as an open map.
type Customization struct {
	PrimaryColor    string `json:"primaryColor" validate:"omitempty,hexcolor"`
	AccentColor     string `json:"accentColor" validate:"omitempty,hexcolor"`
	Font            string `json:"font" validate:"omitempty,oneof=modern classic playful"`
	Layout          string `json:"layout" validate:"omitempty,oneof=minimal bold elegant"`
	PaymentsEnabled *bool  `json:"paymentsEnabled,omitempty"`
}

// GenerationRequest is the transient request body for one generation cycle.
// Model is optional and defaults to the baseline identifier.
type GenerationRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model,omitempty"`
}

// GenerationResult is the structured reply expected from the language model.
// Products must be non-empty (3-6 expected) with non-negative prices.
type GenerationResult struct {
	StoreName     string        `json:"storeName" validate:"required,min=1,max=100"`
	Products      []Product     `json:"products" validate:"required,min=1,dive"`
	Customization Customization `json:"customization"`
	Suggestions   []string      `json:"suggestions"`
}

// StoreDraft is the client-held working copy of generated store content.
// A successful generation replaces it wholesale; it never merges.
type StoreDraft struct {
	StoreName string    `json:"storeName"`
	Products  []Product `json:"products"`
}
