package models

// Envelope is the common response shape of every API route.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data"`
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// SuggestRequest asks for a drafted about or vision text. The optional
// company facts describe unsaved wizard input and take precedence over the
// stored profile.
type SuggestRequest struct {
	Field            string `json:"field" binding:"required,oneof=about vision"`
	CompanyName      string `json:"company_name,omitempty"`
	Industry         string `json:"industry,omitempty"`
	OrganizationType string `json:"organization_type,omitempty"`
	TeamSize         string `json:"team_size,omitempty"`
	Description      string `json:"description,omitempty"`
}

type Suggestion struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}
