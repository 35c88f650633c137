package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ydadvisory/internal/config"
)

type testServer struct {
	t      *testing.T
	app    *App
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	viewerHash, err := bcrypt.GenerateFromPassword([]byte("viewer-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	yaml := fmt.Sprintf(`
database:
  driver: sqlite
  url: "file:%s"
auth:
  jwt_secret: "integration-secret"
  admin_email: "admin@yd.example"
  admin_password_hash: %q
  accounts:
    - {email: "viewer@yd.example", password_hash: %q, role: viewer}
wizard:
  dry_run: true
  window: 300ms
files:
  root_dir: %q
`, filepath.Join(dir, "app.db"), adminHash, viewerHash, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	a, err := New(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &testServer{t: t, app: a}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "wizard_session" {
			s.cookie = c
		}
	}
	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (s *testServer) login(email, pw string) string {
	s.t.Helper()
	w, out := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": pw})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	token, _ := out["access_token"].(string)
	require.NotEmpty(s.t, token)
	return token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, out := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])
}

func TestAdminContentFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@yd.example", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/admin/services", "", map[string]any{"title": "Capital Raising"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	admin := s.login("admin@yd.example", "admin-pw")
	w, out := s.do(http.MethodPost, "/api/admin/services", admin, map[string]any{"title": "Capital Raising", "active": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "capital-raising", out["slug"])

	w, _ = s.do(http.MethodPost, "/api/admin/services", admin, map[string]any{"title": "Hidden Desk"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(http.MethodPost, "/api/admin/services", admin, map[string]any{"title": "Capital raising"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, out = s.do(http.MethodPost, "/api/admin/services", admin, map[string]any{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, out["fields"], "title")

	w, out = s.do(http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["total"])

	w, out = s.do(http.MethodGet, "/api/admin/services", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, out["total"])

	w, _ = s.do(http.MethodGet, "/api/services/slug/hidden-desk", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/services/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	viewer := s.login("viewer@yd.example", "viewer-pw")
	w, _ = s.do(http.MethodGet, "/api/admin/services", viewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/admin/services", viewer, map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestContactAndNewsletter(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodPost, "/api/contact", "", map[string]any{"name": "Ann", "email": "bad", "message": "hi"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w, out := s.do(http.MethodPost, "/api/contact", "", map[string]any{"name": "Ann", "email": "ann@example.com", "message": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := int(out["id"].(float64))

	admin := s.login("admin@yd.example", "admin-pw")
	path := fmt.Sprintf("/api/admin/contacts/%d/status", id)
	w, _ = s.do(http.MethodPatch, path, admin, map[string]string{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(http.MethodPatch, path, admin, map[string]string{"status": "read"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": "reader@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": "reader@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, out = s.do(http.MethodGet, "/api/admin/newsletter", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["total"])
	w, _ = s.do(http.MethodGet, "/api/newsletter/unsubscribe?token=missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

var wizardSteps = []map[string]string{
	{"companyName": "Acme Robotics", "country": "US", "industry": "saas", "businessStage": "seed"},
	{"revenue": "250000", "employees": "6-20"},
	{"growthRate": "25-50", "marketSize": "medium", "competitionLevel": "low"},
	{"teamExperience": "some", "technologyLevel": "moderate"},
	{"intellectualProperty": "pending", "customerBase": "growing"},
	{"financialHealth": "good", "riskLevel": "medium"},
	{"growthOpportunities": "moderate", "scalability": "medium"},
}

func TestWizardOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(http.MethodGet, "/api/wizard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.cookie)
	assert.EqualValues(t, 1, out["step"])

	w, _ = s.do(http.MethodGet, "/api/wizard/options", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out = s.do(http.MethodPatch, "/api/wizard/answers", "", map[string]string{"bogus": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, out["fields"], "bogus")

	w, out = s.do(http.MethodPost, "/api/wizard/next", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, out["fields"], "companyName")

	for i, answers := range wizardSteps {
		w, _ = s.do(http.MethodPatch, "/api/wizard/answers", "", answers)
		require.Equal(t, http.StatusOK, w.Code, "step %d: %s", i+1, w.Body.String())
		w, out = s.do(http.MethodPost, "/api/wizard/next", "", nil)
		require.Equal(t, http.StatusOK, w.Code, "step %d: %s", i+1, w.Body.String())
		assert.EqualValues(t, i+2, out["step"])
	}

	w, _ = s.do(http.MethodPatch, "/api/wizard/answers", "", map[string]string{"email": "ceo@acme.io"})
	require.Equal(t, http.StatusOK, w.Code)
	w, out = s.do(http.MethodPost, "/api/wizard/report", "", nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.EqualValues(t, 8.5, out["step"])

	w, _ = s.do(http.MethodGet, "/api/wizard/report.pdf", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Eventually(t, func() bool {
		_, out := s.do(http.MethodGet, "/api/wizard", "", nil)
		return out["step"] == float64(9)
	}, 2*time.Second, 10*time.Millisecond)

	w, _ = s.do(http.MethodGet, "/api/wizard/report.pdf", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "acme-robotics-valuation.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w, out = s.do(http.MethodPost, "/api/wizard/rating", "", map[string]any{"rating": 5, "submit": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, out["rating_submitted"])

	w, out = s.do(http.MethodPost, "/api/wizard/reset", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["step"])
}

func TestWizardSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodPatch, "/api/wizard/answers", "", map[string]string{"companyName": "Acme"})
	require.Equal(t, http.StatusOK, w.Code)

	other := &testServer{t: t, app: s.app}
	_, out := other.do(http.MethodGet, "/api/wizard", "", nil)
	answers, _ := out["answers"].(map[string]any)
	assert.Empty(t, answers["companyName"])
}
