package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/returntrack/returntrack-backend/internal/domain"
	"github.com/returntrack/returntrack-backend/internal/usecase/registration"
	"github.com/returntrack/returntrack-backend/internal/usecase/view"
)

// recordPayload is the wire form of a monthly record. Percentage travels as a
// string so the decimal survives the trip without float rounding.
type recordPayload struct {
	ID             string    `json:"id"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	Percentage     string    `json:"percentage"`
	InvestmentFirm string    `json:"investmentFirm"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toPayload(r *domain.MonthlyRecord) recordPayload {
	return recordPayload{
		ID:             r.ID.String(),
		Year:           r.Year,
		Month:          r.Month,
		Percentage:     r.Percentage.String(),
		InvestmentFirm: r.InvestmentFirm,
		CreatedAt:      r.CreatedAt,
	}
}

type createRecordRequest struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Percentage     string `json:"percentage"`
	InvestmentFirm string `json:"investmentFirm"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate := domain.RecordCandidate{
		Year:           req.Year,
		Month:          req.Month,
		InvestmentFirm: req.InvestmentFirm,
	}
	if req.Percentage != "" {
		pct, err := decimal.NewFromString(req.Percentage)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "percentage must be numeric")
			return
		}
		candidate.Percentage = decimal.NullDecimal{Decimal: pct, Valid: true}
	}

	record, err := s.Records.Create(r.Context(), sessionFrom(r.Context()), candidate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPayload(record))
}

type updateRecordRequest struct {
	Percentage     string `json:"percentage"`
	InvestmentFirm string `json:"investmentFirm"`
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pct, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "percentage must be numeric")
		return
	}

	record, err := s.Records.Update(r.Context(), sessionFrom(r.Context()), id, req.InvestmentFirm, pct)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPayload(record))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := s.Records.Delete(r.Context(), sessionFrom(r.Context()), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := s.Records.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	writeJSON(w, http.StatusOK, toPayload(record))
}

// listResponse degrades gracefully: a listing failure yields an empty
// collection plus an error message instead of a failed page.
type listResponse struct {
	Records []recordPayload `json:"records"`
	Firms   []string        `json:"firms"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	months := s.WindowMonths
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			months = n
		}
	}

	result, err := s.Records.ListWindow(r.Context(), session.UserID, months)
	if err != nil {
		s.Logger.Error().Err(err).Msg("listing failed")
		writeJSON(w, http.StatusOK, listResponse{Records: []recordPayload{}, Firms: []string{}, Error: "failed to load data"})
		return
	}

	spec := view.SortSpec{
		Column:    view.Column(r.URL.Query().Get("sort")),
		Direction: view.Direction(r.URL.Query().Get("dir")),
	}
	if spec.Column == "" {
		spec.Column = view.ColumnPeriod
		spec.Direction = view.Descending
	}
	if spec.Direction == "" {
		spec.Direction = view.Ascending
	}

	shown := view.Apply(result, r.URL.Query().Get("firm"), spec)

	payloads := make([]recordPayload, len(shown))
	for i, rec := range shown {
		payloads[i] = toPayload(rec)
	}

	writeJSON(w, http.StatusOK, listResponse{Records: payloads, Firms: view.FirmOptions(result)})
}

type accessResponse struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	decision, err := s.Gate.CheckAccess(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		s.Logger.Warn().Err(err).Msg("access check degraded")
	}

	writeJSON(w, http.StatusOK, accessResponse{
		Allowed:  decision.Allowed,
		Redirect: string(decision.Redirect),
		Email:    decision.Email,
	})
}

type registerRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	InvitationCode string `json:"invitationCode"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.Registration.Register(r.Context(), sessionFrom(r.Context()), registration.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		InvitationCode: req.InvitationCode,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    profile.ID.String(),
		"email": profile.Email,
	})
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.Identity.SignInWithIdentifier(r.Context(), req.Email); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type callbackRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	session, token, err := s.Identity.ExchangeCallback(r.Context(), req.Code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken": token,
		"userId":      session.UserID.String(),
		"email":       session.Email,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Identity.SignOut(r.Context(), bearerToken(r)); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
