package handler

import (
	"net/http"
	"strings"

	"partner-sync/internal/model"
	"partner-sync/internal/partnerhdr"
	"partner-sync/internal/reconcile"
)

// identityFrom returns the partner email and category for a request. The
// Partner-Session email wins over the email query parameter, while a
// category query parameter overrides the header's category.
func identityFrom(r *http.Request) (string, model.Category, error) {
	var email string
	var category model.Category
	if s := partnerhdr.FromContext(r.Context()); s != nil {
		email, category = s.Email, s.Category
	}
	if email == "" {
		email = strings.TrimSpace(r.URL.Query().Get("email"))
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := model.ParseCategory(raw)
		if !ok {
			return "", "", model.NewValidationError("category", "unknown category "+raw)
		}
		category = c
	}
	return email, category, nil
}

// handleGetProfile returns the reconciled profile.
// GET /v1/profile?category=
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	email, category, err := identityFrom(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	profile, err := h.loadProfile(r.Context(), email, category)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// handleSaveSection persists one section of the profile in the body.
// PUT /v1/profile/{section}
func (h *Handler) handleSaveSection(w http.ResponseWriter, r *http.Request) {
	section, err := model.ParseSection(r.PathValue("section"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	email, category, err := identityFrom(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var profile model.BusinessProfile
	if err := decodeJSON(r, &profile); err != nil {
		h.writeError(w, err)
		return
	}
	if profile.Category == "" {
		profile.Category = category
	}

	result, err := h.saveSection(r.Context(), email, section, profile)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// NormalizeRequest is the body of POST /v1/normalize.
type NormalizeRequest struct {
	Category string         `json:"category"`
	Document map[string]any `json:"document"`
}

// handleNormalize reconciles a raw backend document without any network call.
// POST /v1/normalize
func (h *Handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	profile, err := h.normalizeDocument(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// normalizeDocument accepts an empty category, in which case the document's
// own service type decides.
func (h *Handler) normalizeDocument(req NormalizeRequest) (*model.BusinessProfile, error) {
	var category model.Category
	if req.Category != "" {
		c, ok := model.ParseCategory(req.Category)
		if !ok {
			return nil, model.NewValidationError("category", "unknown category "+req.Category)
		}
		category = c
	}
	if req.Document == nil {
		return nil, model.NewValidationError("document", "is required")
	}

	partial := h.decoder.Document(model.RemoteDocument(req.Document), category)
	if category == "" && partial.Category != nil {
		category = *partial.Category
	}
	p := reconcile.Merge(model.NewProfile(category), &partial, model.PartialProfile{})
	return &p, nil
}
