package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteData_EncodeFailureUsesGivenLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rr := httptest.NewRecorder()

	writeData(rr, zap.New(core), http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Error encoding response", logs.All()[0].Message)
}

func TestRouter_FailuresLogToInjectedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := new(MockService)
	svc.On("ListFavorites", mock.Anything, testUser.ID).Return(nil, errors.New("db down"))

	router := NewRouter(Dependencies{
		Service: svc,
		Users:   staticUsers{token: testToken, user: testUser},
		Locale:  config.LocaleConfig{Supported: []string{"en"}, Fallback: "en"},
		Logger:  zap.New(core),
	})

	rr := doRequest(router, http.MethodGet, "/api/v1/favorites", "", true)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	failures := logs.FilterMessage("Request failed")
	require.Equal(t, 1, failures.Len())
	assert.Equal(t, "/api/v1/favorites", failures.All()[0].ContextMap()["path"])
}
