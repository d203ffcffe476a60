package models

// OpenGraphMetadata is the preview metadata extracted from a page.
// An empty field means the page did not provide it.
type OpenGraphMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

// IsEmpty reports whether no field was found
func (m OpenGraphMetadata) IsEmpty() bool {
	return m == OpenGraphMetadata{}
}
