package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/returntrack/returntrack-backend/internal/domain"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []fieldErrorPayload `json:"fields,omitempty"`
	Rule   string              `json:"rule,omitempty"`
}

type fieldErrorPayload struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeDomainError maps the error taxonomy to HTTP statuses:
// validation 422, unauthorized 401, not found 404, uniqueness conflict 409,
// store failure 502, anything else 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationResult
		fieldErr   *domain.ValidationError
		conflict   *domain.ConstraintViolation
		storeErr   *domain.StoreError
	)

	switch {
	case errors.As(err, &validation):
		resp := errorResponse{Error: validation.Error()}
		for _, e := range validation.Errors {
			resp.Fields = append(resp.Fields, fieldErrorPayload{
				Field: e.Field, Kind: string(e.Kind), Message: e.Message,
			})
		}
		writeJSONError(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &fieldErr):
		writeJSONError(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  fieldErr.Error(),
			Fields: []fieldErrorPayload{{Field: fieldErr.Field, Kind: string(fieldErr.Kind), Message: fieldErr.Message}},
		})
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeJSONError(w, http.StatusConflict, errorResponse{Error: conflict.Error(), Rule: string(conflict.Rule)})
	case errors.As(err, &storeErr):
		s.Logger.Error().Err(err).Msg("store failure")
		writeError(w, http.StatusBadGateway, "backend unavailable")
	default:
		s.Logger.Error().Err(err).Msg("unclassified failure")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
