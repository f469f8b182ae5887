package partnerhdr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// Middleware parses the Partner-Session header and stores the session in
// the request context. The header is optional since identity can also come
// from the query string, but a malformed header is rejected with 400 and a
// client below minVersion with 426.
func Middleware(minVersion string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(HeaderName)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := Parse(header)
			if err != nil {
				logger.Warn("invalid Partner-Session header",
					slog.String("error", err.Error()))
				writeHeaderError(w, http.StatusBadRequest, "INVALID_SESSION_HEADER", err.Error())
				return
			}

			if err := CheckVersion(s.Client, minVersion); err != nil {
				var verErr *VersionError
				if errors.As(err, &verErr) {
					logger.Info("rejected outdated client",
						slog.String("client", verErr.Client),
						slog.String("minimum", verErr.Minimum))
				}
				writeHeaderError(w, http.StatusUpgradeRequired, "CLIENT_OUTDATED", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// isExemptPath returns true for health checks.
func isExemptPath(path string) bool {
	return path == "/health" || path == "/healthz"
}

func writeHeaderError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	resp.Error.Code = code
	resp.Error.Message = message

	json.NewEncoder(w).Encode(resp)
}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session parsed by Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
