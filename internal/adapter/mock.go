package adapter

import (
	"context"

	"partner-sync/internal/model"
)

// Mock implements Backend for testing.
// Each method can be configured via function fields.
type Mock struct {
	FetchProfileFunc func(ctx context.Context, email string, category model.Category) (model.RemoteDocument, error)
	PatchProfileFunc func(ctx context.Context, email string, payload model.PatchPayload) (*model.Ack, error)
	UploadAssetFunc  func(ctx context.Context, email string, req *UploadRequest) (*model.UploadedAsset, error)
	ForTokenFunc     func(token string) Backend
}

// FetchProfile calls the configured FetchProfileFunc or returns not found.
func (m *Mock) FetchProfile(ctx context.Context, email string, category model.Category) (model.RemoteDocument, error) {
	if m.FetchProfileFunc != nil {
		return m.FetchProfileFunc(ctx, email, category)
	}
	return nil, model.NewNotFoundError("profile")
}

// PatchProfile calls the configured PatchProfileFunc or acknowledges the save.
func (m *Mock) PatchProfile(ctx context.Context, email string, payload model.PatchPayload) (*model.Ack, error) {
	if m.PatchProfileFunc != nil {
		return m.PatchProfileFunc(ctx, email, payload)
	}
	return &model.Ack{Message: "updated"}, nil
}

// UploadAsset calls the configured UploadAssetFunc or returns an error.
func (m *Mock) UploadAsset(ctx context.Context, email string, req *UploadRequest) (*model.UploadedAsset, error) {
	if m.UploadAssetFunc != nil {
		return m.UploadAssetFunc(ctx, email, req)
	}
	return nil, model.NewInternalError(nil)
}

// ForToken calls the configured ForTokenFunc or returns m unchanged.
func (m *Mock) ForToken(token string) Backend {
	if m.ForTokenFunc != nil {
		return m.ForTokenFunc(token)
	}
	return m
}

// Verify Mock implements Backend interface at compile time.
var (
	_ Backend     = (*Mock)(nil)
	_ TokenScoper = (*Mock)(nil)
)
