package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shop-notify/internal/config"
	"github.com/shop-notify/internal/domain"
	jwtinfra "github.com/shop-notify/internal/infrastructure/jwt"
	"github.com/shop-notify/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) List(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationSvc) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Create(ctx context.Context, spec domain.NotificationSpec) (*domain.Notification, error) {
	args := m.Called(ctx, spec)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Update(ctx context.Context, notificationID string, spec domain.NotificationSpec) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, spec)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Patch(ctx context.Context, notificationID string, patch domain.PatchNotificationRequest) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, patch)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Delete(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func (m *mockNotificationSvc) MarkRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *mockNotificationSvc) Hide(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

// --- helpers ---

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiryDays:     1,
	})
	require.NoError(t, err)
	return p
}

// bearerReq builds a request with a signed Bearer token for the given userID and role.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target, userID, role string, body []byte) *http.Request {
	t.Helper()
	token, err := p.Sign(userID, role)
	require.NoError(t, err)
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serveAuthed wraps the handler with middleware.Auth before serving.
func serveAuthed(p *jwtinfra.Provider, h http.Handler, w http.ResponseWriter, r *http.Request) {
	middleware.Auth(p)(h).ServeHTTP(w, r)
}

// --- Create tests ---

func TestCreate_InvalidBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)
	r := httptest.NewRequest(http.MethodPost, "/v1/notifications", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)
	body, _ := json.Marshal(domain.CreateNotificationRequest{Kind: "global"}) // missing title and message
	r := httptest.NewRequest(http.MethodPost, "/v1/notifications", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_PersonalWithoutTarget(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)
	body, _ := json.Marshal(domain.CreateNotificationRequest{
		Kind: "personal", Title: "Hi", Message: "There",
	})
	r := httptest.NewRequest(http.MethodPost, "/v1/notifications", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_HappyPath(t *testing.T) {
	svc := &mockNotificationSvc{}
	created := &domain.Notification{NotificationID: "n1", Kind: domain.KindGlobal, Status: domain.StatusPublished}
	svc.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	h := NewNotificationHandler(svc)

	body, _ := json.Marshal(domain.CreateNotificationRequest{
		Kind: "global", Title: "Maintenance", Message: "Tonight",
	})
	r := httptest.NewRequest(http.MethodPost, "/v1/notifications", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp domain.Notification
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "n1", resp.NotificationID)
	svc.AssertExpectations(t)
}

// --- Get tests ---

func TestGet_NotFound(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	h := NewNotificationHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodGet, "/v1/notifications/missing", nil), "missing")
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- MarkRead / Hide tests ---

func TestMarkRead_MissingClaims(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)
	r := withChiID(httptest.NewRequest(http.MethodPut, "/v1/notifications/n1/read", nil), "n1")
	rr := httptest.NewRecorder()
	h.MarkRead(rr, r) // called directly, no claims in context
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMarkRead_UsesCallerIdentity(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotificationSvc{}
	svc.On("MarkRead", mock.Anything, "u1", "n1").Return(nil)
	h := NewNotificationHandler(svc)

	r := bearerReq(t, p, http.MethodPut, "/v1/notifications/n1/read", "u1", domain.RoleUser, nil)
	r = withChiID(r, "n1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.MarkRead), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestHide_UnknownNotification(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockNotificationSvc{}
	svc.On("Hide", mock.Anything, "u1", "missing").Return(domain.ErrNotFound)
	h := NewNotificationHandler(svc)

	r := bearerReq(t, p, http.MethodPut, "/v1/notifications/missing/hide", "u1", domain.RoleUser, nil)
	r = withChiID(r, "missing")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Hide), rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}
