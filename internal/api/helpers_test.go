package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// jsonRequest builds a request with a JSON body, authenticated as userID
// unless userID is uuid.Nil.
func jsonRequest(t *testing.T, method, target string, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return authenticate(req, userID)
}

func authenticate(req *http.Request, userID uuid.UUID) *http.Request {
	if userID == uuid.Nil {
		return req
	}
	return req.WithContext(shared.WithUserID(req.Context(), userID))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

type fakeUserService struct {
	RegisterFn     func(ctx context.Context, email, name, password string) (*service.AuthResult, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserFn      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (f *fakeUserService) Register(ctx context.Context, email, name, password string) (*service.AuthResult, error) {
	return f.RegisterFn(ctx, email, name, password)
}

func (f *fakeUserService) Authenticate(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return f.AuthenticateFn(ctx, email, password)
}

func (f *fakeUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return f.GetUserFn(ctx, userID)
}

type fakeStressService struct {
	SubmitCheckinFn    func(ctx context.Context, userID uuid.UUID, checkin domain.CheckinInput) (*service.AssessmentOutcome, error)
	SubmitBiometricsFn func(
		ctx context.Context,
		userID uuid.UUID,
		sessionToken string,
		biometrics domain.BiometricInput,
	) (*service.AssessmentOutcome, error)
	SessionStatusFn func(ctx context.Context, sessionToken string) (biometric.Session, bool, error)
	HistoryFn       func(ctx context.Context, userID uuid.UUID, limit int) (*service.StressHistory, error)
}

func (f *fakeStressService) SubmitCheckin(
	ctx context.Context,
	userID uuid.UUID,
	checkin domain.CheckinInput,
) (*service.AssessmentOutcome, error) {
	return f.SubmitCheckinFn(ctx, userID, checkin)
}

func (f *fakeStressService) SubmitBiometrics(
	ctx context.Context,
	userID uuid.UUID,
	sessionToken string,
	biometrics domain.BiometricInput,
) (*service.AssessmentOutcome, error) {
	return f.SubmitBiometricsFn(ctx, userID, sessionToken, biometrics)
}

func (f *fakeStressService) SessionStatus(ctx context.Context, sessionToken string) (biometric.Session, bool, error) {
	return f.SessionStatusFn(ctx, sessionToken)
}

func (f *fakeStressService) History(ctx context.Context, userID uuid.UUID, limit int) (*service.StressHistory, error) {
	return f.HistoryFn(ctx, userID, limit)
}

type fakeGenerationService struct {
	GenerateFn func(ctx context.Context, userID uuid.UUID, text string, anchorID *uuid.UUID) (*domain.GeneratedContent, error)
	FromPDFFn  func(
		ctx context.Context,
		userID uuid.UUID,
		filename string,
		data []byte,
		anchorID *uuid.UUID,
	) (*domain.GeneratedContent, error)
}

func (f *fakeGenerationService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	text string,
	anchorID *uuid.UUID,
) (*domain.GeneratedContent, error) {
	return f.GenerateFn(ctx, userID, text, anchorID)
}

func (f *fakeGenerationService) GenerateFromPDF(
	ctx context.Context,
	userID uuid.UUID,
	filename string,
	data []byte,
	anchorID *uuid.UUID,
) (*domain.GeneratedContent, error) {
	return f.FromPDFFn(ctx, userID, filename, data, anchorID)
}

var (
	_ service.UserService       = (*fakeUserService)(nil)
	_ service.StressService     = (*fakeStressService)(nil)
	_ service.GenerationService = (*fakeGenerationService)(nil)
)
