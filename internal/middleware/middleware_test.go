package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		handler http.HandlerFunc
		want    []string
	}{
		{
			name:   "explicit status",
			method: http.MethodPut,
			path:   "/v1/profile/offers",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			want: []string{"method=PUT", "path=/v1/profile/offers", "status=202"},
		},
		{
			name:   "implicit 200 on write",
			method: http.MethodGet,
			path:   "/v1/profile",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			want: []string{"method=GET", "status=200"},
		},
		{
			name:   "handler writes nothing",
			method: http.MethodGet,
			path:   "/healthz",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want:   []string{"path=/healthz", "status=200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("User-Agent", "partnerctl/1.2.0")

			Logging(logger)(tt.handler).ServeHTTP(httptest.NewRecorder(), req)

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			assert.Contains(t, buf.String(), "user_agent=partnerctl/1.2.0")
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes 500", func(t *testing.T) {
		logger, buf := bufferLogger()
		h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("merge exploded")
		}))

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/profile/rules", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "merge exploded")
		assert.Contains(t, buf.String(), "path=/v1/profile/rules")
	})

	t.Run("passes through without panic", func(t *testing.T) {
		h := Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("headers already sent", func(t *testing.T) {
		h := Recovery(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			panic("late panic")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+">")
				next.ServeHTTP(w, r)
				order = append(order, "<"+name)
			})
		}
	}

	h := Chain(tag("recovery"), tag("request-id"), tag("logging"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{
		"recovery>", "request-id>", "logging>",
		"handler",
		"<logging", "<request-id", "<recovery",
	}, order)
}

func TestResponseWriter(t *testing.T) {
	t.Run("first WriteHeader wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

		rw.WriteHeader(http.StatusBadRequest)
		rw.WriteHeader(http.StatusOK)

		assert.Equal(t, http.StatusBadRequest, rw.status)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Write implies 200", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
		rw.Write([]byte("x"))

		assert.True(t, rw.wroteHeader)
		assert.Equal(t, http.StatusOK, rw.status)
	})

	t.Run("Flush reaches the recorder", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rec, status: http.StatusOK}
		rw.Flush()

		assert.True(t, rec.Flushed)
	})

	t.Run("wrapped is idempotent", func(t *testing.T) {
		rw := wrapped(httptest.NewRecorder())
		assert.Same(t, rw, wrapped(rw))
	})
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"replaced when not a uuid", "abc-123", false},
		{"kept when a uuid", uuid.NewString(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			var seen string
			h := Chain(RequestID(), Logging(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			assert.Contains(t, buf.String(), "request_id="+seen)
		})
	}
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
