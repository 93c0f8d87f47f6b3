package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"go.uber.org/zap"
)

type contextKey int

const (
	userContextKey contextKey = iota
	localeContextKey
)

// UserLookup resolves a stored API token hash to its owner.
// It returns nil, nil when no user holds the hash.
type UserLookup interface {
	GetByTokenHash(ctx context.Context, hash string) (*model.User, error)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok && user != nil
}

// LocaleFromContext returns the resolved request locale, or "" when none was set
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey).(string)
	return locale
}

func mustUser(r *http.Request) *model.User {
	user, ok := UserFromContext(r.Context())
	if !ok {
		panic("api: handler registered without requireUser")
	}
	return user
}

// authenticate attaches the user owning the bearer token to the request.
// Requests without a valid token continue anonymously.
func authenticate(users UserLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByTokenHash(r.Context(), model.HashAPIToken(token))
			if err != nil {
				logger.Error("Failed to resolve API token", zap.Error(err))
				writeErrorBody(w, logger, http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal server error"})
				return
			}
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// localize resolves Accept-Language against the supported locales
func localize(cfg config.LocaleConfig) func(http.Handler) http.Handler {
	supported := make(map[string]struct{}, len(cfg.Supported))
	for _, l := range cfg.Supported {
		supported[strings.ToLower(l)] = struct{}{}
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = "en"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := resolveLocale(r.Header.Get("Accept-Language"), supported, fallback)
			w.Header().Set("Content-Language", locale)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeContextKey, locale)))
		})
	}
}

// resolveLocale takes the first tag of header, reduced to its primary subtag
func resolveLocale(header string, supported map[string]struct{}, fallback string) string {
	if header == "" {
		return fallback
	}
	tag := strings.SplitN(header, ",", 2)[0]
	tag = strings.SplitN(tag, ";", 2)[0]
	primary := strings.ToLower(strings.TrimSpace(strings.SplitN(tag, "-", 2)[0]))
	if _, ok := supported[primary]; ok {
		return primary
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests writes one access log line per request
func logRequests(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			}
			if user, ok := UserFromContext(r.Context()); ok {
				fields = append(fields, zap.Int64("user_id", user.ID))
			}
			logger.Info("HTTP request", fields...)
		})
	}
}
