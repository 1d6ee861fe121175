package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/auth"
	"github.com/rickeysan/hiit-score-app/internal/exercise"
	"github.com/rickeysan/hiit-score-app/internal/push"
	"github.com/rickeysan/hiit-score-app/internal/service"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

const testToken = "MOCK-TOKEN"

type testApp struct {
	logger  internal.Logger
	notify  *service.NotificationService
	store   *storage.FileStorage
	catalog *exercise.Catalog
}

func (a *testApp) Logger() internal.Logger { return a.logger }

func (a *testApp) Notifications() *service.NotificationService { return a.notify }

func (a *testApp) SessionRepo() storage.SessionRepository { return a.store }

func (a *testApp) Catalog() *exercise.Catalog { return a.catalog }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := internal.NopLogger()
	store, err := storage.NewFileStorage(t.TempDir(), logger)
	require.NoError(t, err)
	app := &testApp{
		logger:  logger,
		store:   store,
		notify:  service.NewNotificationService(store, store, push.NewLogProvider(logger), logger),
		catalog: exercise.Default(),
	}
	t.Cleanup(func() {
		app.notify.Close()
		_ = store.Close()
	})
	return NewRouter(app, auth.NewLocalAuthProvider(testToken, logger))
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	r := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnauthorized(t *testing.T) {
	r := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationTimerFlow(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/notifications/timer", map[string]any{
		"targetId":   "browser-1",
		"notifyTime": time.Now().Add(-time.Minute).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "notifyTime must be in the future")

	w = do(t, r, http.MethodPost, "/api/notifications/timer", map[string]any{
		"targetId":     "browser-1",
		"delaySeconds": 0.05,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var res service.TimerResult
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &res))
	assert.True(t, res.Success)
	require.NotEmpty(t, res.ScheduleID)

	require.Eventually(t, func() bool {
		w := do(t, r, http.MethodGet, "/api/notifications/"+res.ScheduleID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		var env envelope
		var sc internal.Schedule
		if json.Unmarshal(w.Body.Bytes(), &env) != nil || json.Unmarshal(env.Data, &sc) != nil {
			return false
		}
		return sc.Status == internal.StatusFailed && sc.Error == internal.ErrTokenNotFound.Error()
	}, 3*time.Second, 20*time.Millisecond)

	w = do(t, r, http.MethodGet, "/api/notifications/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenAndImmediate(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/notifications/immediate", map[string]any{"targetId": "browser-2"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/tokens", map[string]any{"targetId": "browser-2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/tokens", map[string]any{"targetId": "browser-2", "token": "device"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/notifications/immediate", map[string]any{"targetId": "browser-2"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["messageId"], "local/messages/")
}

func TestExercises(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/api/exercises", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []exercise.Exercise
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	assert.Len(t, list, 3)

	w = do(t, r, http.MethodGet, "/api/exercises/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ex exercise.Exercise
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &ex))
	assert.Equal(t, 120, ex.TargetScore)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/exercises/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/exercises/abc", nil).Code)
}

func TestSessionsHistoryAndStats(t *testing.T) {
	r := setupRouter(t)
	start := time.Now().Add(-time.Hour).UTC()

	w := do(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"score": 0, "startedAt": start, "endedAt": start.Add(time.Minute),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Meta["archived"])

	for i, s := range []float64{30.7, 75.2} {
		begin := start.Add(time.Duration(i) * 10 * time.Minute)
		w = do(t, r, http.MethodPost, "/api/sessions", map[string]any{
			"score": s, "startedAt": begin, "endedAt": begin.Add(45 * time.Second), "exerciseId": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/sessions", map[string]any{
		"score": 10, "startedAt": start, "endedAt": start.Add(time.Second), "exerciseId": 42,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []internal.SessionRecord
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, 75, recs[0].Score)
	assert.Equal(t, "45s", recs[0].DurationLabel)
	assert.Equal(t, auth.LocalCallerID, recs[0].OwnerID)

	w = do(t, r, http.MethodGet, "/api/sessions/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.SessionStats
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	assert.Equal(t, 75, stats.Best)
	assert.Equal(t, 53, stats.Average)
	assert.Equal(t, "up", stats.Trend)
	assert.Equal(t, "intermediate", stats.Level.Name)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req.WithContext(context.Background()))
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", internal.ErrInvalidArgument)))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", internal.ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, statusFor(internal.ErrTokenNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("boom")))
}
