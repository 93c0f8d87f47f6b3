package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestRateLimiter_Returns429WhenLimitExceeded(t *testing.T) {
	rl := NewRateLimiter(2, zap.NewNop())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/search", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/search", nil)
	req.RemoteAddr = "10.0.0.1:5678"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))
	assert.Equal(t, codeRateLimited, decodeError(t, rr).Code)

	// another client has its own bucket
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/search", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_KeysAuthenticatedUsersByID(t *testing.T) {
	svc := new(MockService)
	svc.On("ListFavorites", mock.Anything, testUser.ID).Return([]model.Favorite{}, nil)

	router := NewRouter(Dependencies{
		Service:            svc,
		Users:              staticUsers{token: testToken, user: testUser},
		RateLimitPerMinute: 1,
		Logger:             zap.NewNop(),
	})

	first := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	first.RemoteAddr = "10.0.0.1:1"
	first.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	second.RemoteAddr = "10.0.0.2:1"
	second.Header.Set("Authorization", "Bearer "+testToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, zap.NewNop())
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.limiterFor("ip:a")
	rl.limiterFor("ip:b")
	assert.Equal(t, 2, rl.Len())

	now = now.Add(limiterIdleTTL + time.Second)
	rl.limiterFor("ip:c")
	assert.Equal(t, 1, rl.Len())
}
