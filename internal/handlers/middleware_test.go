package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/Brownie44l1/sellerhub/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoClient(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(clientIDKey))
}

func TestClientID_IssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ClientID(time.Hour, false))
	router.GET("/", echoClient)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.Equal(t, cookies[0].Value, w.Body.String())
}

func TestClientID_ReusesValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ClientID(time.Hour, false))
	router.GET("/", echoClient)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: id})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: "not-a-uuid"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, string) (*session.Handle, error) {
	return nil, errors.New("redis: connection refused")
}

func TestLoadSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("restores stored session", func(t *testing.T) {
		st := store.NewMemoryStore(time.Hour)
		mgr := session.NewManager(loginAPI{}, st)
		require.NoError(t, mgr.Login(context.Background(), session.NewHandle(testClientID), models.RoleUser,
			models.LoginRequest{Email: "a@b.c", Password: "pw"}))

		router := gin.New()
		router.Use(func(c *gin.Context) { c.Set(clientIDKey, testClientID) }, LoadSession(mgr), RequireSession())
		router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, currentSession(c).BearerToken()) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", w.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		router := gin.New()
		router.Use(LoadSession(failingLoader{}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
