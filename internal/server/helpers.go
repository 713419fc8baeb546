package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
)

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()), slog.Any("error", err))
	s.writeJSON(w, r, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

func (s *Server) clientError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logger.DebugContext(r.Context(), http.StatusText(status), "method", r.Method, "uri", r.URL.RequestURI(), "reason", msg)
	s.writeJSON(w, r, status, errorBody{Error: msg})
}

// fail maps err to an HTTP status by its gRPC code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := common.Code(err)
	status := httpStatus(code)
	if status >= http.StatusInternalServerError && code != codes.Unavailable {
		s.serverError(w, r, err)
		return
	}
	s.clientError(w, r, status, err.Error())
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.ResourceExhausted:
		return http.StatusRequestEntityTooLarge
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unimplemented:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

// readJSON decodes a single JSON object of at most 1 MiB into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: body: %v", common.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", common.ErrInvalidInput)
	}
	return nil
}

// pathCaseID validates the {caseId} path value.
func pathCaseID(r *http.Request) (string, error) {
	id := r.PathValue("caseId")
	v := common.NewValidator().Field("caseId", id, common.CaseID)
	if err := v.Error(); err != nil {
		return "", err
	}
	return id, nil
}
