package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tricktrack/pkg/errors"
	"github.com/matzehuels/tricktrack/pkg/hits"
	"github.com/matzehuels/tricktrack/pkg/pipeline"
	"github.com/matzehuels/tricktrack/pkg/store"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

type listResponse struct {
	Runs []*store.Run `json:"runs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	opts, err := s.runOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	d, err := hits.ReadJSON(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidEvent, "event exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidEvent, err, "invalid event"))
		return
	}

	result, err := s.runner.Execute(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	run := store.NewRun(result, opts.MinHits)
	if err := s.store.Save(r.Context(), run); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save run"))
		return
	}

	w.Header().Set("Location", "/v1/runs/"+run.ID)
	writeJSON(w, http.StatusCreated, run)
}

// runOptions applies the query overrides to a copy of the defaults.
func (s *Server) runOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults.Clone()
	q := r.URL.Query()

	if v := q.Get("min_hits"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "min_hits must be an integer, got %q", v)
		}
		opts.MinHits = n
	}
	if v := q.Get("triplets"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "triplets must be a boolean, got %q", v)
		}
		opts.TripletsOnly = b
		if b && q.Get("min_hits") == "" {
			opts.MinHits = 0
		}
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = b
	}

	opts.Logger = s.logger.With("request_id", requestID(r))
	return opts, opts.ValidateAndSetDefaults()
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxListLimit {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and %d, got %q", MaxListLimit, v))
			return
		}
		limit = n
	}

	runs, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list runs"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	run, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "run %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "get run"))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", requestID(r), "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
