package models

import "time"

// Bundle is a named, ordered collection of links published under a vanity URL.
type Bundle struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	VanityURL   string    `json:"vanity_url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Links       []Link    `json:"links"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Link is a single bookmarked URL with its preview metadata.
type Link struct {
	ID          string `json:"id"`
	BundleID    string `json:"bundle_id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
}

// LinkInput is the caller-supplied part of a Link.
type LinkInput struct {
	URL         string `json:"url" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// LinkFromMetadata builds a link input for rawURL. Without a title the raw URL is used.
func LinkFromMetadata(rawURL string, meta OpenGraphMetadata) LinkInput {
	title := meta.Title
	if title == "" {
		title = rawURL
	}
	return LinkInput{
		URL:         rawURL,
		Title:       title,
		Description: meta.Description,
		Image:       meta.Image,
	}
}
