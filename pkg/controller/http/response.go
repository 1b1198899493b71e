package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/errutil"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
)

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 1 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode JSON response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(ctx, w, append(body, '\n'))
}

// writeError maps err to a status code. Client errors are answered with a
// JSON body and logged as warnings, server errors go through errutil.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}

	logging.From(ctx).Warn("request rejected", "status", status, "error", err.Error())
	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}
