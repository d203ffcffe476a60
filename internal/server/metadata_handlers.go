package server

import (
	"net/http"

	"github.com/aleister1102/urlist/internal/metadata"
)

type ogInfoRequest struct {
	URL string `json:"url" validate:"required"`
}

// resolveErrorStatus maps a resolver failure to an HTTP status and client message.
func resolveErrorStatus(err error) (int, string) {
	switch metadata.KindOf(err) {
	case metadata.KindInvalidInput:
		return http.StatusBadRequest, "Invalid URL"
	case metadata.KindForbiddenScheme:
		return http.StatusBadRequest, "Only http and https URLs are allowed"
	case metadata.KindForbiddenHost:
		return http.StatusForbidden, "Access to this host is not allowed"
	case metadata.KindUnsupportedContentType:
		return http.StatusBadRequest, "URL did not return an HTML document"
	case metadata.KindUpstream:
		return http.StatusBadRequest, "Failed to fetch URL"
	default:
		return http.StatusInternalServerError, "Failed to fetch metadata"
	}
}

// handleOGInfo handles POST /api/oginfo.
func (s *Server) handleOGInfo(w http.ResponseWriter, r *http.Request) {
	var req ogInfoRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		if req.URL == "" && !isBadBody(err) {
			s.writeError(w, http.StatusBadRequest, "URL is required")
			return
		}
		s.writeDecodeError(w, err)
		return
	}
	s.resolveAndWrite(w, r, req.URL)
}

// handleOpenGraph handles GET /api/opengraph?url=...
func (s *Server) handleOpenGraph(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	s.resolveAndWrite(w, r, rawURL)
}

func (s *Server) resolveAndWrite(w http.ResponseWriter, r *http.Request, rawURL string) {
	meta, err := s.resolver.Resolve(r.Context(), rawURL)
	if err != nil {
		status, message := resolveErrorStatus(err)
		s.logger.Warn().Err(err).Str("url", rawURL).Str("kind", string(metadata.KindOf(err))).Int("status", status).Msg("Metadata resolution failed")
		s.writeError(w, status, message)
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}
