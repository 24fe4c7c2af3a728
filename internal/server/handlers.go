package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// validate is a singleton validator instance.
var validate = validator.New()

type layoutRequest struct {
	Name  string       `json:"name" validate:"omitempty,max=128"`
	Graph *graph.Graph `json:"graph" validate:"required"`
	// Config is merged over the server defaults and checked by
	// layout.Config.Validate.
	Config  layout.Config `json:"config" validate:"-"`
	Refresh bool          `json:"refresh"`
}

type layoutResponse struct {
	RequestID  string       `json:"request_id"`
	GraphHash  string       `json:"graph_hash"`
	CacheHit   bool         `json:"cache_hit"`
	DurationMS float64      `json:"duration_ms"`
	Layout     graph.Layout `json:"layout"`
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{Config: s.cfg.Defaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.LayoutTimeout)
	defer cancel()
	resp, err := s.cfg.Runner.Layout(ctx, pipeline.Request{
		Name:    req.Name,
		Graph:   *req.Graph,
		Config:  req.Config,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		RequestID:  RequestIDFrom(r.Context()),
		GraphHash:  resp.GraphHash,
		CacheHit:   resp.CacheHit,
		DurationMS: float64(resp.Duration.Microseconds()) / 1000,
		Layout:     resp.Layout,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     detail(err),
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// detail is the user message plus its cause, without the code prefix.
func detail(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
