// Package adapter defines the interface to the partner backend.
// The dashboard session and the gateway depend on Backend so tests can
// swap in Mock without an HTTP server.
package adapter

import (
	"context"

	"partner-sync/internal/model"
)

// Backend abstracts the partner profile endpoints.
//
// Every failure is returned as a *model.APIError. A success:false envelope
// and a non-2xx status are reported the same way.
type Backend interface {
	// FetchProfile returns the raw profile document for email.
	// Accommodation partners are read from the properties resource, every
	// other category from stores. A missing profile is a NOT_FOUND error.
	FetchProfile(ctx context.Context, email string, category model.Category) (model.RemoteDocument, error)

	// PatchProfile persists one section. The payload body is sent as-is.
	PatchProfile(ctx context.Context, email string, payload model.PatchPayload) (*model.Ack, error)

	// UploadAsset uploads one photo and returns its durable location.
	// OldPublicID, when set, lets the backend evict the replaced asset.
	UploadAsset(ctx context.Context, email string, req *UploadRequest) (*model.UploadedAsset, error)
}

// TokenScoper is implemented by backends that can act with a caller's own
// bearer token instead of the service credential.
type TokenScoper interface {
	ForToken(token string) Backend
}

// UploadRequest describes one photo slot upload.
type UploadRequest struct {
	Category    model.Category
	Slot        string
	File        model.LocalFile
	OldPublicID string
}
