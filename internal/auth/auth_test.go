package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickeysan/hiit-score-app/internal"
)

func TestLocalAuthProvider(t *testing.T) {
	p := NewLocalAuthProvider("MOCK-TOKEN", internal.NopLogger())
	caller, err := p.Authenticate(context.Background(), "MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, LocalCallerID, caller.ID)

	_, err = p.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemoteAuthProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "good" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(internal.Caller{ID: "user-7", Name: "Remote"})
	}))
	defer srv.Close()

	p := NewRemoteAuthProvider(srv.URL, internal.NopLogger())
	caller, err := p.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-7", caller.ID)

	_, err = p.Authenticate(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(NewLocalAuthProvider("MOCK-TOKEN", internal.NopLogger())))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, CallerFrom(c).ID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer MOCK-TOKEN")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, LocalCallerID, w.Body.String())
}
