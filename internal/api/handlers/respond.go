package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/models"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error  string              `json:"error"`
	Kind   string              `json:"kind"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and error body
func writeError(w http.ResponseWriter, err error, logger *logrus.Logger) {
	status, kind := classify(err)
	response := ErrorResponse{Error: err.Error(), Kind: kind}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		response.Fields = verr.Fields
	}

	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
		response.Error = "Internal server error"
	}

	writeJSON(w, status, response)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, controllers.ErrSessionNotFound):
		return http.StatusNotFound, "search_not_found"
	case errors.Is(err, controllers.ErrSuperseded):
		return http.StatusConflict, "superseded"
	}

	kind := models.Kind(err)
	switch kind {
	case models.KindInvalidURL:
		return http.StatusBadRequest, string(kind)
	case models.KindInspectionFailed:
		return http.StatusBadGateway, string(kind)
	case models.KindValidation:
		return http.StatusUnprocessableEntity, string(kind)
	case models.KindNoMatchingFormat:
		return http.StatusNotFound, string(kind)
	case models.KindDuplicateURL:
		return http.StatusConflict, string(kind)
	default:
		return http.StatusInternalServerError, string(models.KindInternal)
	}
}

// decodeBody reads a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewValidationError("body", "invalid JSON body: "+err.Error())
	}
	return nil
}
