package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/DRSN-tech/basket-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p *usecase.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// principalFromCtx возвращает пользователя, положенного в контекст Authenticator.
func principalFromCtx(ctx context.Context) (*usecase.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*usecase.Principal)
	return p, ok && p != nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticator пропускает запрос только с валидным Bearer-токеном.
func Authenticator(authUC usecase.AuthUC, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			principal, err := authUC.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debugf("authentication failed: %v", err)
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin ставится после Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromCtx(r.Context())
		if !ok {
			WriteError(w, e.ErrUnauthorized)
			return
		}
		if !principal.IsAdmin() {
			WriteError(w, e.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessLog пишет одну строку на запрос.
func AccessLog(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			msg := "%s %s %d %dB %s req_id=%s"
			args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context())}
			if status >= http.StatusInternalServerError {
				logger.Warnf(msg, args...)
				return
			}
			logger.Infof(msg, args...)
		})
	}
}
