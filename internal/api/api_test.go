package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/tablefork/backend/internal/api"
	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/router"
	"github.com/pageza/tablefork/backend/internal/service"
	"github.com/pageza/tablefork/backend/internal/testhelpers"
	"github.com/pageza/tablefork/backend/internal/types"
)

const testJWTSecret = "test-secret-key"

type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	log := logger.NewNop()

	auth := service.NewAuthService(db, testJWTSecret, log)
	users := service.NewUserService(db, log)
	follows := service.NewFollowService(db, log)
	recipes := service.NewRecipeService(db, log)
	memberships := service.NewMembershipService(db, log)
	shopping := service.NewShoppingListService(db, log)
	catalog := service.NewCatalogService(db, log)

	engine := router.SetupRouter(
		api.NewAuthHandler(auth),
		api.NewUserHandler(auth, users, follows),
		api.NewRecipeHandler(recipes, memberships, shopping, auth, nil),
		api.NewCatalogHandler(catalog),
		[]string{"http://localhost:3000"},
	)

	return &testEnv{db: db, engine: engine, auth: auth}
}

// do performs a request against the in-process router. A non-empty token is
// sent as a bearer credential.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account over HTTP and returns its token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/users", "", types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cure-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
		Email:    username + "@example.com",
		Password: "s3cure-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
