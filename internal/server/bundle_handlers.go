package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aleister1102/urlist/internal/datastore"
	"github.com/aleister1102/urlist/internal/metadata"
	"github.com/aleister1102/urlist/internal/models"
	"github.com/aleister1102/urlist/internal/urlhandler"
	"github.com/aleister1102/urlist/internal/vanity"
	"github.com/go-chi/chi/v5"
)

const maxLinksPerBundle = 100

type createBundleRequest struct {
	VanityURL   string             `json:"vanity_url"`
	Title       string             `json:"title" validate:"max=200"`
	Description string             `json:"description" validate:"max=2000"`
	Links       []models.LinkInput `json:"links"`
}

type updateBundleRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Links       *[]models.LinkInput `json:"links"`
}

type addLinkRequest struct {
	URL string `json:"url" validate:"required"`
}

type updateLinkRequest struct {
	URL         *string `json:"url" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image"`
}

type addLinkResponse struct {
	*models.Link
	MetadataError string `json:"metadata_error,omitempty"`
}

// validateLinks checks every link carries a well-formed http(s) URL.
func (s *Server) validateLinks(links []models.LinkInput) error {
	if len(links) > maxLinksPerBundle {
		return fmt.Errorf("a bundle holds at most %d links", maxLinksPerBundle)
	}
	for i := range links {
		if err := s.validateStruct(&links[i]); err != nil {
			return fmt.Errorf("links[%d]: %v", i, err)
		}
		if _, err := urlhandler.ParseTarget(links[i].URL, nil); err != nil {
			return fmt.Errorf("links[%d]: invalid URL", i)
		}
	}
	return nil
}

// vanityParam returns the normalized {vanity} path segment.
func vanityParam(r *http.Request) string {
	return vanity.Normalize(chi.URLParam(r, "vanity"))
}

// ownedBundle loads the bundle named in the path and checks the caller owns it.
// It writes the error response and returns nil when the caller may not proceed.
func (s *Server) ownedBundle(w http.ResponseWriter, r *http.Request) *models.Bundle {
	bundle, err := s.store.GetBundleByVanity(r.Context(), vanityParam(r))
	if err != nil {
		s.writeStoreError(w, err, "Failed to load bundle")
		return nil
	}
	if bundle.UserID != userFromContext(r.Context()) {
		s.writeError(w, http.StatusForbidden, "Forbidden")
		return nil
	}
	return bundle
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Bundle not found")
	case errors.Is(err, datastore.ErrLinkNotFound):
		s.writeError(w, http.StatusNotFound, "Link not found")
	case errors.Is(err, datastore.ErrVanityTaken):
		s.writeError(w, http.StatusConflict, "Vanity URL is already taken")
	default:
		s.logger.Error().Err(err).Msg(message)
		s.writeError(w, http.StatusInternalServerError, message)
	}
}

// handleCreateBundle handles POST /api/bundles.
func (s *Server) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createBundleRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if err := s.validateLinks(req.Links); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slug := vanity.Normalize(req.VanityURL)
	if slug != "" {
		if err := vanity.Validate(slug); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid vanity URL")
			return
		}
		available, err := s.store.IsVanityAvailable(ctx, slug, "")
		if err != nil {
			s.writeStoreError(w, err, "Failed to check vanity URL")
			return
		}
		if !available {
			s.writeStoreError(w, datastore.ErrVanityTaken, "")
			return
		}
	} else {
		generated, err := vanity.GenerateAvailable(ctx, s.vanityCfg.Length, s.vanityCfg.MaxAttempts,
			func(ctx context.Context, candidate string) (bool, error) {
				return s.store.IsVanityAvailable(ctx, candidate, "")
			})
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate vanity URL")
			s.writeError(w, http.StatusInternalServerError, "Failed to generate vanity URL")
			return
		}
		slug = generated
	}

	bundle, err := s.store.CreateBundle(ctx, datastore.NewBundle{
		UserID:      userFromContext(ctx),
		VanityURL:   slug,
		Title:       req.Title,
		Description: req.Description,
		Links:       req.Links,
	})
	if err != nil {
		s.writeStoreError(w, err, "Failed to create bundle")
		return
	}
	s.writeJSON(w, http.StatusCreated, bundle)
}

// handleListBundles handles GET /api/bundles.
func (s *Server) handleListBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := s.store.ListBundlesByUser(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeStoreError(w, err, "Failed to list bundles")
		return
	}
	s.writeJSON(w, http.StatusOK, bundles)
}

// handleGetBundle handles GET /api/bundles/{vanity}. Bundles are public.
func (s *Server) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.store.GetBundleByVanity(r.Context(), vanityParam(r))
	if err != nil {
		s.writeStoreError(w, err, "Failed to load bundle")
		return
	}
	s.writeJSON(w, http.StatusOK, bundle)
}

// handleUpdateBundle handles PUT /api/bundles/{vanity}.
func (s *Server) handleUpdateBundle(w http.ResponseWriter, r *http.Request) {
	bundle := s.ownedBundle(w, r)
	if bundle == nil {
		return
	}

	var req updateBundleRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if req.Links != nil {
		if err := s.validateLinks(*req.Links); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	updated, err := s.store.UpdateBundle(r.Context(), bundle.ID, datastore.BundleUpdate{
		Title:       req.Title,
		Description: req.Description,
		Links:       req.Links,
	})
	if err != nil {
		s.writeStoreError(w, err, "Failed to update bundle")
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

// handleDeleteBundle handles DELETE /api/bundles/{vanity}.
func (s *Server) handleDeleteBundle(w http.ResponseWriter, r *http.Request) {
	bundle := s.ownedBundle(w, r)
	if bundle == nil {
		return
	}
	if err := s.store.DeleteBundle(r.Context(), bundle.ID); err != nil {
		s.writeStoreError(w, err, "Failed to delete bundle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddLink handles POST /api/bundles/{vanity}/links. The URL must be a
// well-formed http(s) URL; a metadata lookup that fails past that point still
// stores the link, titled with its URL.
func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	bundle := s.ownedBundle(w, r)
	if bundle == nil {
		return
	}

	var req addLinkRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if _, err := urlhandler.ParseTarget(req.URL, nil); err != nil {
		status, message := resolveErrorStatus(err)
		s.writeError(w, status, message)
		return
	}

	resp := addLinkResponse{}
	meta, err := s.resolver.Resolve(r.Context(), req.URL)
	if err != nil {
		kind := metadata.KindOf(err)
		s.logger.Warn().Err(err).Str("url", req.URL).Str("kind", string(kind)).Msg("Storing link without metadata")
		meta = models.OpenGraphMetadata{}
		resp.MetadataError = string(kind)
	}

	link, err := s.store.AddLink(r.Context(), bundle.ID, models.LinkFromMetadata(req.URL, meta))
	if err != nil {
		s.writeStoreError(w, err, "Failed to add link")
		return
	}
	resp.Link = link
	s.writeJSON(w, http.StatusCreated, resp)
}

// handleUpdateLink handles PUT /api/bundles/{vanity}/links/{linkID}.
func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	bundle := s.ownedBundle(w, r)
	if bundle == nil {
		return
	}

	var req updateLinkRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if req.URL != nil {
		if _, err := urlhandler.ParseTarget(*req.URL, nil); err != nil {
			s.writeError(w, http.StatusBadRequest, "url: invalid URL")
			return
		}
	}

	link, err := s.store.UpdateLink(r.Context(), bundle.ID, chi.URLParam(r, "linkID"), datastore.LinkUpdate{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		s.writeStoreError(w, err, "Failed to update link")
		return
	}
	s.writeJSON(w, http.StatusOK, link)
}

// handleDeleteLink handles DELETE /api/bundles/{vanity}/links/{linkID}.
func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	bundle := s.ownedBundle(w, r)
	if bundle == nil {
		return
	}
	if err := s.store.DeleteLink(r.Context(), bundle.ID, chi.URLParam(r, "linkID")); err != nil {
		s.writeStoreError(w, err, "Failed to delete link")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleVanityAvailable handles GET /api/vanity/{vanity}/available.
func (s *Server) handleVanityAvailable(w http.ResponseWriter, r *http.Request) {
	slug := vanityParam(r)
	if err := vanity.Validate(slug); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid vanity URL")
		return
	}
	available, err := s.store.IsVanityAvailable(r.Context(), slug, r.URL.Query().Get("exclude"))
	if err != nil {
		s.writeStoreError(w, err, "Failed to check vanity URL")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}
