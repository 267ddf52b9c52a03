package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/returntrack/returntrack-backend/internal/domain"
	"github.com/returntrack/returntrack-backend/internal/usecase/access"
	"github.com/returntrack/returntrack-backend/internal/usecase/records"
	"github.com/returntrack/returntrack-backend/internal/usecase/registration"
)

// MockRecordRepository is a mock implementation of RecordRepository for testing
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *domain.MonthlyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, id, userID uuid.UUID, investmentFirm string, percentage decimal.Decimal) (*domain.MonthlyRecord, error) {
	args := m.Called(ctx, id, userID, investmentFirm, percentage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyRecord), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonthlyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyRecord), args.Error(1)
}

func (m *MockRecordRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.MonthlyRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlyRecord), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository for testing
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// stubIdentity resolves a single known token to a fixed session.
type stubIdentity struct {
	token   string
	session *domain.Session
}

func (s *stubIdentity) CurrentSession(ctx context.Context, accessToken string) (*domain.Session, error) {
	if accessToken == s.token && s.token != "" {
		return s.session, nil
	}
	return nil, nil
}

func (s *stubIdentity) SignInWithIdentifier(ctx context.Context, email string) error { return nil }

func (s *stubIdentity) ExchangeCallback(ctx context.Context, code string) (*domain.Session, string, error) {
	return s.session, s.token, nil
}

func (s *stubIdentity) SignOut(ctx context.Context, accessToken string) error { return nil }

func (s *stubIdentity) OnSessionChange(listener domain.SessionListener) {}

type testEnv struct {
	server      *Server
	recordRepo  *MockRecordRepository
	profileRepo *MockProfileRepository
	session     *domain.Session
	token       string
	router      http.Handler
}

func newTestEnv() *testEnv {
	recordRepo := new(MockRecordRepository)
	profileRepo := new(MockProfileRepository)

	session := &domain.Session{UserID: uuid.New(), Email: "user@example.com"}

	recordService := records.NewRecordService(recordRepo)
	recordService.Now = func() time.Time {
		return time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	}

	server := NewServer(
		recordService,
		registration.NewRegistrationService(profileRepo),
		access.NewGate(profileRepo),
		&stubIdentity{token: "good-token", session: session},
		log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}},
		12,
	)

	return &testEnv{
		server:      server,
		recordRepo:  recordRepo,
		profileRepo: profileRepo,
		session:     session,
		token:       "good-token",
		router:      server.Router([]string{"*"}),
	}
}

func (e *testEnv) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestAccess_NoToken(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/access", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp accessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
	assert.Equal(t, "login", resp.Redirect)
}

func TestAccess_SessionWithoutProfile(t *testing.T) {
	env := newTestEnv()
	env.profileRepo.On("GetByID", mock.Anything, env.session.UserID).Return(nil, nil)

	rec := env.do(http.MethodGet, "/api/access", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp accessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
	assert.Equal(t, "register", resp.Redirect)
	assert.Equal(t, "user@example.com", resp.Email)
}

func TestCreateRecord_RequiresSession(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/records/",
		`{"year":2025,"month":7,"percentage":"1.2","investmentFirm":"Fidelity Investments"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRecord_ValidationFailure(t *testing.T) {
	env := newTestEnv()

	// Current month (August 2025 in the test clock) is rejected.
	rec := env.do(http.MethodPost, "/api/records/",
		`{"year":2025,"month":8,"percentage":"1.2","investmentFirm":"Fidelity Investments"}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env.recordRepo.AssertNotCalled(t, "Create")
}

func TestCreateRecord_Conflict(t *testing.T) {
	env := newTestEnv()
	env.recordRepo.On("Create", mock.Anything, mock.Anything).
		Return(&domain.ConstraintViolation{Rule: domain.UniquePeriod})

	rec := env.do(http.MethodPost, "/api/records/",
		`{"year":2025,"month":7,"percentage":"1.2","investmentFirm":"Fidelity Investments"}`, true)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.UniquePeriod), resp.Rule)
}

func TestCreateRecord_Success(t *testing.T) {
	env := newTestEnv()
	env.recordRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := env.do(http.MethodPost, "/api/records/",
		`{"year":2025,"month":7,"percentage":"-3.5","investmentFirm":"Fidelity Investments"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp recordPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "-3.5", resp.Percentage)
}

func TestListRecords_DegradesOnStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.recordRepo.On("ListForUser", mock.Anything, env.session.UserID).
		Return(nil, &domain.StoreError{Op: "records.list", Err: errors.New("down")})

	rec := env.do(http.MethodGet, "/api/records/", "", true)

	// Listing failures degrade to empty-with-error, not a failed response.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
	assert.NotEmpty(t, resp.Error)
}

func TestListRecords_FilterAndSort(t *testing.T) {
	env := newTestEnv()
	stored := []*domain.MonthlyRecord{
		{ID: uuid.New(), UserID: env.session.UserID, Year: 2025, Month: 5,
			Percentage: decimal.RequireFromString("1.0"), InvestmentFirm: "Vanguard"},
		{ID: uuid.New(), UserID: env.session.UserID, Year: 2025, Month: 6,
			Percentage: decimal.RequireFromString("2.0"), InvestmentFirm: "Fidelity Investments"},
	}
	env.recordRepo.On("ListForUser", mock.Anything, env.session.UserID).Return(stored, nil)

	rec := env.do(http.MethodGet, "/api/records/?firm=fide", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Fidelity Investments", resp.Records[0].InvestmentFirm)
	// Firm options come from the unfiltered window.
	assert.Equal(t, []string{"Fidelity Investments", "Vanguard"}, resp.Firms)
}

func TestGetRecord_NotFound(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recordRepo.On("GetByID", mock.Anything, id).Return(nil, nil)

	rec := env.do(http.MethodGet, "/api/records/"+id.String(), "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recordRepo.On("Update", mock.Anything, id, env.session.UserID, "Vanguard", mock.Anything).
		Return(nil, domain.ErrNotFound)

	rec := env.do(http.MethodPatch, "/api/records/"+id.String(),
		`{"percentage":"1.0","investmentFirm":"Vanguard"}`, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRecord(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recordRepo.On("Delete", mock.Anything, id, env.session.UserID).Return(nil)

	rec := env.do(http.MethodDelete, "/api/records/"+id.String(), "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegister_SessionEmailWins(t *testing.T) {
	env := newTestEnv()
	env.profileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.UserProfile) bool {
		return p.Email == "user@example.com" && p.InvitationCode == "code42"
	})).Return(nil)

	rec := env.do(http.MethodPost, "/api/register",
		`{"firstName":"Ada","lastName":"Lovelace","email":"other@example.com","phone":"+1555","invitationCode":"CODE42"}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env.profileRepo.AssertExpectations(t)
}
