package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/repository"
)

const (
	codeBadRequest      = "bad_request"
	codeInvalidArgument = "invalid_argument"
	codeUnauthorized    = "unauthorized"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codePaymentFailed   = "payment_failed"
	codeInternal        = "internal_error"
)

var validate = newValidator()

// newValidator reports field errors by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type apiError struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	writeJSON(w, status, apiError{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// writeRepoError maps repository sentinels to statuses. Anything unknown is
// logged and reported as a 500 without internals.
func writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error(), nil)
	case errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error(), nil)
	default:
		zap.L().Error("request failed",
			zap.String("action", action),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to "+action, nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid json body", map[string]any{"error": err.Error()})
		return false
	}

	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid json body", map[string]any{"error": "extra data after json"})
		return false
	}

	return true
}

// decodeAndValidate decodes the body and runs the struct's validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[jsonFieldName(fe)] = fieldMessage(fe)
			}
			writeError(w, http.StatusBadRequest, codeInvalidArgument, "validation failed", fields)
			return false
		}
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error(), nil)
		return false
	}

	return true
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid id"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func pathID(w http.ResponseWriter, r *http.Request, param, what string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "invalid "+what+" id", map[string]any{"id": raw})
		return uuid.Nil, false
	}
	return id, true
}

func queryEmailOrUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("emailOrUid"))
	if v == "" {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "emailOrUid query parameter is required", nil)
		return "", false
	}
	return v, true
}
