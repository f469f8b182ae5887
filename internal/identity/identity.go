// Package identity resolves the partner email that keys every remote call.
package identity

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"partner-sync/internal/model"
	"partner-sync/internal/session"
)

// ContextUser is the in-memory "current partner" object handed over by the
// signin or signup flow.
type ContextUser struct {
	Email        string       `json:"email,omitempty"`
	BasicDetails BasicDetails `json:"basicDetails"`
}

// BasicDetails is the first step of the partner signup payload.
type BasicDetails struct {
	Email string `json:"email,omitempty"`
}

// email returns the first non-blank of Email and BasicDetails.Email.
func (u *ContextUser) email() string {
	if u == nil {
		return ""
	}
	if e := strings.TrimSpace(u.Email); e != "" {
		return e
	}
	return strings.TrimSpace(u.BasicDetails.Email)
}

// Resolver checks identity sources in priority order.
type Resolver struct {
	Session session.Store // tab-scoped; may be nil
	Local   session.Store // long-lived; may be nil
	Keys    []string      // blob keys tried in each store, default partner_session then user
	Logger  *slog.Logger
}

// NewResolver creates a resolver over the two stores with default keys.
func NewResolver(sessionStore, local session.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		Session: sessionStore,
		Local:   local,
		Keys:    []string{session.KeyPartnerSession, session.KeyUser},
		Logger:  logger,
	}
}

// Resolve returns the partner email from, in order: current, the session
// store, the long-lived store. Every step fails soft; the first hit wins
// and later sources are not consulted. Returns an IDENTITY_NOT_FOUND
// APIError when all are exhausted. Callers must not retry on it.
func (r *Resolver) Resolve(ctx context.Context, current *ContextUser) (string, error) {
	if e := current.email(); e != "" {
		return e, nil
	}
	for _, store := range []session.Store{r.Session, r.Local} {
		if e := r.fromStore(ctx, store); e != "" {
			return e, nil
		}
	}
	return "", model.NewIdentityNotFoundError()
}

func (r *Resolver) fromStore(ctx context.Context, store session.Store) string {
	if store == nil {
		return ""
	}
	for _, key := range r.keys() {
		blob, err := store.Get(ctx, key)
		if err != nil {
			continue
		}
		if e := EmailFromBlob(blob); e != "" {
			return e
		}
		if r.Logger != nil {
			r.Logger.Debug("session blob has no email", slog.String("key", key))
		}
	}
	return ""
}

func (r *Resolver) keys() []string {
	if len(r.Keys) == 0 {
		return []string{session.KeyPartnerSession, session.KeyUser}
	}
	return r.Keys
}

// EmailFromBlob parses a stored JSON envelope for email or
// basicDetails.email. Invalid JSON yields "".
func EmailFromBlob(blob string) string {
	var u ContextUser
	if err := json.Unmarshal([]byte(blob), &u); err != nil {
		return ""
	}
	return u.email()
}

// Remember stores a session envelope for email under the partner key so
// later processes can resolve it from the long-lived store.
func Remember(ctx context.Context, store session.Store, email string, extra map[string]any) error {
	blob := map[string]any{}
	for k, v := range extra {
		blob[k] = v
	}
	blob["email"] = email
	data, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return store.Set(ctx, session.KeyPartnerSession, string(data))
}

// Forget clears every identity key from store.
func Forget(ctx context.Context, store session.Store) error {
	for _, key := range []string{session.KeyPartnerSession, session.KeyUser} {
		if err := store.Clear(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
