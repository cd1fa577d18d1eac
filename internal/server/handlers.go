package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/render"
	"github.com/conneroisu/codex/internal/version"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Languages int    `json:"languages"`
	Uptime    string `json:"uptime"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version.GetShortVersion(),
		Languages: s.renderer.Catalog().Len(),
		Uptime:    time.Since(s.started).Truncate(time.Second).String(),
	})
}

// HandleLanguages lists the compiled catalog.
func (s *Server) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.renderer.Catalog().Describe())
}

// HandleRender renders the request body for ?target=.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	target, err := s.renderer.Catalog().Lookup(query.Get("target"))
	if err != nil {
		s.fail(ctx, w, http.StatusBadRequest, err)
		return
	}

	compress := s.compress
	if raw := query.Get("compress"); raw != "" {
		compress, err = strconv.ParseBool(raw)
		if err != nil {
			s.fail(ctx, w, http.StatusBadRequest,
				errors.NewValidationError("INVALID_PARAMETER", "compress must be a boolean"))
			return
		}
	}

	body := io.Reader(r.Body)
	if s.config.MaxPayload > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxPayload)
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.fail(ctx, w, status, errors.WrapIO(err, "INPUT_READ", "unable to read payload"))
		return
	}

	sources, err := s.sources()
	if err != nil {
		s.fail(ctx, w, http.StatusInternalServerError, err)
		return
	}

	var out bytes.Buffer
	err = s.renderer.Render(&out, render.Request{
		Language: target,
		Payload:  payload,
		Sources:  sources,
		Compress: compress,
	})
	if err != nil {
		s.fail(ctx, w, http.StatusInternalServerError, err)
		return
	}

	t, _ := s.renderer.Catalog().Template(target)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.OutputName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		s.logger.Warn(ctx, err, "Failed to send rendered program", "language", string(target))
	}
}

func (s *Server) fail(ctx context.Context, w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, err, "Render request failed")
	} else {
		s.logger.Debug(ctx, "Render request rejected", "error", err.Error())
	}
	writeJSON(w, status, ErrorResponse{
		Error:    err.Error(),
		Code:     errors.CodeOf(err),
		Language: errors.LanguageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
