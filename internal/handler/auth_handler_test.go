package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/service"
)

// singleAdminStore serves one fixed admin account.
type singleAdminStore struct {
	admin models.Admin
}

func (s *singleAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if strings.EqualFold(email, s.admin.Email) {
		a := s.admin
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *singleAdminStore) GetByID(_ context.Context, id int) (*models.Admin, error) {
	if id == s.admin.ID {
		a := s.admin
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *singleAdminStore) List(context.Context) ([]models.Admin, error) {
	return []models.Admin{s.admin}, nil
}

func (s *singleAdminStore) Count(context.Context) (int, error) { return 1, nil }

func (s *singleAdminStore) Create(context.Context, *models.Admin) error { return nil }

func (s *singleAdminStore) Delete(context.Context, int) error { return nil }

func (s *singleAdminStore) TouchLastVerified(context.Context, int) error { return nil }

func authTestRouter(t *testing.T) (*gin.Engine, *auth.Auth) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &singleAdminStore{admin: models.Admin{ID: 1, Email: "admin@fiihub.com.br", PasswordHash: string(hash)}}

	codec := auth.NewCodec("test-secret")
	a := auth.NewAuth(codec, auth.NewCookieStore(false))
	svc := service.NewAdminAuthService(store, codec, database.NewExecutor())
	h := NewAuthHandler(svc, a)

	r := gin.New()
	r.POST("/api/admin/auth/login", h.Login)
	r.POST("/api/admin/auth/logout", h.Logout)
	r.GET("/api/admin/auth/me", h.Me)
	return r, a
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, a := authTestRouter(t)

	w := postJSON(r, "/api/admin/auth/login", `{"email":"admin@fiihub.com.br","password":"senha-forte"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"success":true`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, auth.CookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.NotNil(t, a.Codec.Verify(cookies[0].Value))
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := authTestRouter(t)

	w := postJSON(r, "/api/admin/auth/login", `{"email":"admin@fiihub.com.br","password":"errada"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Credenciais inválidas")
	require.Empty(t, w.Result().Cookies())
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	r, _ := authTestRouter(t)

	w := postJSON(r, "/api/admin/auth/login", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := authTestRouter(t)

	w := postJSON(r, "/api/admin/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, auth.CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestMeWithValidSession(t *testing.T) {
	r, a := authTestRouter(t)

	token, err := a.Codec.Sign("1", "admin@fiihub.com.br")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "admin@fiihub.com.br")
}

func TestMeWithTamperedToken(t *testing.T) {
	r, a := authTestRouter(t)

	token, err := a.Codec.Sign("1", "admin@fiihub.com.br")
	require.NoError(t, err)

	// The route guard would let this cookie through; the handler must not.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token + "x"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token inválido")
}
