package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userRepo "booked/database/repository/user"
	"booked/models"
	"booked/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	byID    map[string]*models.User
	lookups int
}

func (s *stubUsers) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.lookups++
	user, ok := s.byID[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return user, nil
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func newAuthTestRouter(t *testing.T, users *stubUsers) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	utils.AuthCacheClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID"), "role": c.GetString("role")})
	})
	r.GET("/admin", JWTAuthMiddleware(users), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	users := &stubUsers{byID: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleClient, Active: true},
	}}
	r := newAuthTestRouter(t, users)

	token, err := utils.GenerateToken("u1", string(models.RoleClient), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
	assert.Equal(t, 1, users.lookups)

	// Second request is served from the auth cache without a user lookup.
	w = doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, users.lookups)
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	users := &stubUsers{byID: map[string]*models.User{}}
	r := newAuthTestRouter(t, users)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken("ghost", string(models.RoleClient), time.Hour)
	require.NoError(t, err)
	w = doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInactiveUser(t *testing.T) {
	users := &stubUsers{byID: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleClient, Active: false},
	}}
	r := newAuthTestRouter(t, users)

	token, err := utils.GenerateToken("u1", string(models.RoleClient), time.Hour)
	require.NoError(t, err)
	w := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	users := &stubUsers{byID: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleClient, Active: true},
		"a1": {ID: "a1", Role: models.RoleAdmin, Active: true},
	}}
	r := newAuthTestRouter(t, users)

	clientToken, err := utils.GenerateToken("u1", string(models.RoleClient), time.Hour)
	require.NoError(t, err)
	adminToken, err := utils.GenerateToken("a1", string(models.RoleAdmin), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
