package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	internal_errors "github.com/examchan-dev/examchan/internal/errors"
	"github.com/examchan-dev/examchan/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var e *internal_errors.Error
	if kind, ok := internal_errors.KindOf(err); ok {
		e = &internal_errors.Error{Kind: kind, Message: err.Error()}
		http.Error(w, e.Message, e.StatusCode())
		return
	}
	// default error is 500
	logger.Log.Error("request failed", "err", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.MissingFields("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		return internal_errors.MissingFields("Required fields missing")
	}
	return nil
}

func validateStruct(body any) error {
	if err := validate.Struct(body); err != nil {
		return internal_errors.MissingFields("Required fields missing")
	}
	return nil
}

// parseId converts a path/body id into an ObjectID. Invalid ids are
// reported with the caller's not-found error so malformed and missing
// references look the same to clients.
func parseId(s string, notFound *internal_errors.Error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.ObjectID{}, notFound
	}
	return id, nil
}

// parsePage reads the "page" query param, defaulting to 1.
func parsePage(r *http.Request) int {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}
