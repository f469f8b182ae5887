// Package handler provides the HTTP and MCP surface of the partner gateway.
//
// The gateway does not authenticate partners itself. The partner email comes
// from the Partner-Session header or the email query parameter and is
// trusted as given. A caller that sends "Authorization: Bearer <token>" has
// its token forwarded so the backend authorizes the call as that partner;
// otherwise the backend is called with the service token, and the gateway
// must only be reachable by trusted callers (an authenticating proxy or an
// internal network).
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"partner-sync/internal/adapter"
	"partner-sync/internal/model"
	"partner-sync/internal/normalize"
	"partner-sync/internal/reconcile"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	backend adapter.Backend
	decoder *normalize.Decoder
	logger  *slog.Logger
}

// New creates a Handler over backend. A nil decoder gets one that logs to
// logger and builds no CDN URLs.
func New(backend adapter.Backend, decoder *normalize.Decoder, logger *slog.Logger) *Handler {
	if decoder == nil {
		decoder = &normalize.Decoder{Logger: logger}
	}
	return &Handler{
		backend: backend,
		decoder: decoder,
		logger:  logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /v1/profile", withCallerToken(http.HandlerFunc(h.handleGetProfile)))
	mux.Handle("PUT /v1/profile/{section}", withCallerToken(http.HandlerFunc(h.handleSaveSection)))
	mux.HandleFunc("POST /v1/normalize", h.handleNormalize)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", withCallerToken(h.NewMCPHandler()))

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}

// === Operations shared by REST and MCP ===

// loadProfile fetches the remote document for email and reconciles it into
// a complete canonical profile.
func (h *Handler) loadProfile(ctx context.Context, email string, category model.Category) (*model.BusinessProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, model.NewIdentityNotFoundError()
	}
	if !category.Valid() {
		return nil, model.NewValidationError("category", "a supported category is required")
	}

	doc, err := h.backendFor(ctx).FetchProfile(ctx, email, category)
	if err != nil {
		return nil, err
	}
	p := h.reconcile(doc, category)
	return &p, nil
}

// saveSection persists one section of profile for email.
func (h *Handler) saveSection(ctx context.Context, email string, section model.Section, profile model.BusinessProfile) (*SaveResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, model.NewIdentityNotFoundError()
	}
	payload, err := reconcile.BuildPatch(section, profile)
	if err != nil {
		return nil, err
	}
	ack, err := h.backendFor(ctx).PatchProfile(ctx, email, payload)
	if err != nil {
		return nil, err
	}

	h.logger.Info("section saved",
		slog.String("section", string(section)),
		slog.String("category", string(profile.Category)))
	return &SaveResult{Section: section, Category: profile.Category, Message: ack.Message}, nil
}

type callerTokenKey struct{}

// withCallerToken stores the request's bearer token, if any, for backendFor.
func withCallerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			r = r.WithContext(context.WithValue(r.Context(), callerTokenKey{}, token))
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// backendFor returns the backend acting as the caller when the request
// carried a bearer token and the backend supports it.
func (h *Handler) backendFor(ctx context.Context) adapter.Backend {
	token, _ := ctx.Value(callerTokenKey{}).(string)
	if token == "" {
		return h.backend
	}
	if scoper, ok := h.backend.(adapter.TokenScoper); ok {
		return scoper.ForToken(token)
	}
	return h.backend
}

// reconcile decodes doc and completes it over an empty profile.
func (h *Handler) reconcile(doc model.RemoteDocument, category model.Category) model.BusinessProfile {
	partial := h.decoder.Document(doc, category)
	return reconcile.Merge(model.NewProfile(category), &partial, model.PartialProfile{})
}

// SaveResult acknowledges a section save.
type SaveResult struct {
	Section  model.Section  `json:"section"`
	Category model.Category `json:"category"`
	Message  string         `json:"message,omitempty"`
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var fieldErrs model.FieldErrors
	if errors.As(err, &fieldErrs) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: errorBody{Code: "VALIDATION_ERROR", Message: fieldErrs.Error(), Fields: fieldErrs},
		})
		return
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		// Wrap unexpected errors
		apiErr = model.NewInternalError(err)
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Field:   apiErr.Field,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
