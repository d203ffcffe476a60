package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errBadBody marks request bodies that are not the expected JSON.
var errBadBody = errors.New("invalid request body")

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON value from the body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", errBadBody)
	}
	return s.validateStruct(dst)
}

func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("%s failed '%s'", e.Field(), e.Tag())
		if e.Param() != "" {
			msg += "=" + e.Param()
		}
		messages = append(messages, msg)
	}
	return errors.New(strings.Join(messages, "; "))
}

// writeDecodeError reports a decodeJSON failure as a 400.
func (s *Server) writeDecodeError(w http.ResponseWriter, err error) {
	if isBadBody(err) {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.writeError(w, http.StatusBadRequest, err.Error())
}

func isBadBody(err error) bool {
	return errors.Is(err, errBadBody)
}
