package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap/backend/internal/api/handler"
	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/config"
	"skillswap/backend/internal/localization"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/notification"
	"skillswap/backend/internal/review"
	"skillswap/backend/internal/storage/mockstorage"
	"skillswap/backend/internal/swap"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

var (
	alice = &models.User{ID: "u-alice", Name: "Alice", Email: "alice@example.com"}
	bob   = &models.User{ID: "u-bob", Name: "Bob", Email: "bob@example.com"}
)

type fixture struct {
	engine *gin.Engine
	store  *mockstorage.MockStorage
	hub    *chathub.Hub
}

func newFixture(t *testing.T, env string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env: env,
		JWT: config.JWTConfig{Secret: secret, TTL: time.Hour},
		WS:  config.WSConfig{AllowedOrigin: "*"},
	}
	store := new(mockstorage.MockStorage)
	for _, u := range []*models.User{alice, bob} {
		store.On("FindUserByEmail", u.Email).Return(u, nil)
		store.On("FindUserByID", u.ID).Return(u, nil)
	}
	store.On("FindUserByEmail", "ghost@example.com").Return(nil, nil)

	hub := chathub.NewHub(store, chathub.Options{})
	notifications := notification.NewService(store, hub, localization.MustDefault())
	h := handler.NewHandler(cfg, hub, store,
		swap.NewService(store, notifications),
		review.NewService(store, notifications),
		notifications,
	)
	return &fixture{engine: handler.SetupRouter(h, nil), store: store, hub: hub}
}

func (f *fixture) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := handler.IssueToken(email, secret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, "prod")
	w := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture(t, "prod")

	w := f.do(t, http.MethodGet, "/api/swaps", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/swaps", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := handler.IssueToken(alice.Email, "other-secret", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/swaps", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseToken_RoundTripAndExpiry(t *testing.T) {
	token, err := handler.IssueToken(alice.Email, secret, time.Hour)
	require.NoError(t, err)
	email, err := handler.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, email)

	expired, err := handler.IssueToken(alice.Email, secret, -time.Minute)
	require.NoError(t, err)
	_, err = handler.ParseToken(expired, secret)
	assert.Error(t, err)
}

func TestDevToken(t *testing.T) {
	dev := newFixture(t, "dev")
	w := dev.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"email": alice.Email})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	email, err := handler.ParseToken(resp.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, email)

	w = dev.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	prod := newFixture(t, "prod")
	w = prod.do(t, http.MethodPost, "/api/auth/token", "", map[string]string{"email": alice.Email})
	assert.Equal(t, http.StatusNotFound, w.Code, "token endpoint only exists in dev")
}

func TestUpdateSwapStatus_AcceptNotifiesRequester(t *testing.T) {
	f := newFixture(t, "prod")
	pending := &models.Swap{ID: "swap-1", FromUserID: alice.ID, ToUserID: bob.ID, Status: models.SwapPending}
	accepted := *pending
	accepted.Status = models.SwapAccepted
	f.store.On("FindSwapByID", "swap-1").Return(pending, nil)
	f.store.On("DecideSwap", "swap-1", models.SwapAccepted).Return(&accepted, nil)
	f.store.On("CreateNotification", mock.AnythingOfType("*models.Notification")).Return(nil)

	w := f.do(t, http.MethodPut, "/api/swaps/swap-1/status", bob.Email, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Swap
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.SwapAccepted, got.Status)

	f.store.AssertCalled(t, "CreateNotification", mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == alice.ID && n.Type == models.NotificationSwapAccepted && n.Title == "Swap Request Accepted!"
	}))
}

func TestUpdateSwapStatus_Refusals(t *testing.T) {
	f := newFixture(t, "prod")
	pending := &models.Swap{ID: "swap-1", FromUserID: alice.ID, ToUserID: bob.ID, Status: models.SwapPending}
	f.store.On("FindSwapByID", "swap-1").Return(pending, nil)
	f.store.On("FindSwapByID", "nope").Return(nil, nil)

	w := f.do(t, http.MethodPut, "/api/swaps/swap-1/status", alice.Email, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPut, "/api/swaps/swap-1/status", bob.Email, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, "/api/swaps/nope/status", bob.Email, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.store.AssertNotCalled(t, "DecideSwap", mock.Anything, mock.Anything)
}

func TestChatHistory_OutsiderForbidden(t *testing.T) {
	f := newFixture(t, "prod")
	carol := &models.User{ID: "u-carol", Email: "carol@example.com"}
	f.store.On("FindUserByEmail", carol.Email).Return(carol, nil)
	f.store.On("FindSwapByID", "swap-1").Return(&models.Swap{ID: "swap-1", FromUserID: alice.ID, ToUserID: bob.ID, Status: models.SwapAccepted}, nil)

	w := f.do(t, http.MethodGet, "/api/chat/swap-1", carol.Email, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.store.AssertNotCalled(t, "ListMessagesBySwap", mock.Anything)
}

func TestNotificationEndpoints(t *testing.T) {
	f := newFixture(t, "prod")
	f.store.On("ListNotificationsByUser", alice.ID, 20).Return([]models.Notification{{ID: "n-1", UserID: alice.ID, Type: models.NotificationSwapAccepted}}, nil)
	f.store.On("CountUnreadNotifications", alice.ID).Return(int64(1), nil)
	f.store.On("MarkNotificationRead", "n-1", alice.ID).Return(&models.Notification{ID: "n-1", UserID: alice.ID, IsRead: true}, nil)
	f.store.On("MarkNotificationRead", "n-1", bob.ID).Return(nil, nil)
	f.store.On("MarkAllNotificationsRead", alice.ID).Return(int64(1), nil)

	w := f.do(t, http.MethodGet, "/api/notifications", alice.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n-1"`)

	w = f.do(t, http.MethodGet, "/api/notifications/unread-count", alice.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = f.do(t, http.MethodPut, "/api/notifications/n-1/read", bob.Email, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "another user's notification is invisible")

	w = f.do(t, http.MethodPut, "/api/notifications/n-1/read", alice.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_read":true`)

	w = f.do(t, http.MethodPut, "/api/notifications/read-all", alice.Email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())
}

func TestAddReview_InvalidRating(t *testing.T) {
	f := newFixture(t, "prod")
	w := f.do(t, http.MethodPost, "/api/users/"+bob.ID+"/reviews", alice.Email, map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.store.AssertNotCalled(t, "AddReview", mock.Anything)
}
