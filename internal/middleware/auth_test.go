package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/tablefork/backend/internal/middleware"
	"github.com/pageza/tablefork/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func authRouter(validator middleware.TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := middleware.AuthMiddleware(validator)
	if optional {
		mw = middleware.OptionalAuthMiddleware(validator)
	}

	r := gin.New()
	r.GET("/probe", mw, func(c *gin.Context) {
		if id, ok := c.Get("user_id"); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return r
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	valid := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Username: "chef"}}
	invalid := &stubValidator{err: errors.New("token expired")}

	assert.Equal(t, http.StatusUnauthorized, probe(authRouter(valid, false), "").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(authRouter(valid, false), "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(authRouter(invalid, false), "Bearer abc").Code)
	assert.Equal(t, http.StatusOK, probe(authRouter(valid, false), "Bearer abc").Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	valid := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Username: "chef"}}
	invalid := &stubValidator{err: errors.New("token expired")}

	// Anonymous and broken tokens both pass through.
	assert.Equal(t, http.StatusOK, probe(authRouter(valid, true), "").Code)
	assert.Equal(t, http.StatusOK, probe(authRouter(invalid, true), "Bearer abc").Code)
	assert.Equal(t, http.StatusOK, probe(authRouter(valid, true), "Bearer abc").Code)
}
