package partnerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"partner-sync/internal/adapter"
	"partner-sync/internal/model"
)

// FetchProfile returns the raw profile document for email. Accommodation
// partners are listed under properties (an array; the first row is the
// partner's), every other category under stores (a single object).
func (c *Client) FetchProfile(ctx context.Context, email string, category model.Category) (model.RemoteDocument, error) {
	if email == "" {
		return nil, model.NewIdentityNotFoundError()
	}

	path := pathStores
	if category.UsesProperties() {
		path = pathProperties
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, emailQuery(email), nil)
	if err != nil {
		return nil, fmt.Errorf("creating profile request: %w", err)
	}

	var data json.RawMessage
	if _, err := c.do(req, &data); err != nil {
		return nil, err
	}

	doc, err := firstDocument(data)
	if err != nil {
		return nil, model.NewMalformedShapeError("data", err)
	}
	if doc == nil {
		return nil, model.NewNotFoundError("profile")
	}
	return doc, nil
}

// firstDocument accepts either an array of documents or a single object.
// Both shapes are seen from the two resources. A nil document means none.
func firstDocument(data json.RawMessage) (model.RemoteDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	if data[0] == '[' {
		var docs []model.RemoteDocument
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, err
		}
		for _, d := range docs {
			if d != nil {
				return d, nil
			}
		}
		return nil, nil
	}
	var doc model.RemoteDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PatchProfile sends one section's payload to the endpoint that owns it.
func (c *Client) PatchProfile(ctx context.Context, email string, payload model.PatchPayload) (*model.Ack, error) {
	if email == "" {
		return nil, model.NewIdentityNotFoundError()
	}

	req, err := c.newRequest(ctx, http.MethodPut, patchPath(payload), emailQuery(email), payload.Body)
	if err != nil {
		return nil, fmt.Errorf("creating %s patch request: %w", payload.Section, err)
	}

	var data json.RawMessage
	msg, err := c.do(req, &data)
	if err != nil {
		return nil, err
	}
	return &model.Ack{Message: msg, Data: data}, nil
}

// patchPath routes a section. Accommodation rules and photos have their
// own sub-resources; everything else goes to the profile resource.
func patchPath(p model.PatchPayload) string {
	if !p.Category.UsesProperties() {
		return pathStores
	}
	switch p.Section {
	case model.SectionRules:
		return pathPropertiesRules
	case model.SectionPhotos:
		return pathPropertiesPhotos
	default:
		return pathProperties
	}
}

// UploadAsset uploads one photo as multipart form data.
func (c *Client) UploadAsset(ctx context.Context, email string, up *adapter.UploadRequest) (*model.UploadedAsset, error) {
	if email == "" {
		return nil, model.NewIdentityNotFoundError()
	}
	if up == nil || len(up.File.Data) == 0 {
		return nil, model.NewValidationError("image", "file is empty")
	}

	body, contentType, err := uploadForm(email, up)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathUploadImage, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.setHeaders(req)

	var asset model.UploadedAsset
	if _, err := c.do(req, &asset); err != nil {
		return nil, err
	}
	if asset.URL == "" {
		return nil, model.NewMalformedShapeError("data.url", fmt.Errorf("upload response has no url"))
	}
	return &asset, nil
}

func uploadForm(email string, up *adapter.UploadRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"email", email},
		{"photoType", up.Slot},
		{"serviceType", string(up.Category)},
	}
	if up.OldPublicID != "" {
		fields = append(fields, [2]string{"oldPublicId", up.OldPublicID})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	name := up.File.FileName
	if name == "" {
		name = up.Slot + ".jpg"
	}
	contentType := up.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(name)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.File.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Verify Client implements adapter.Backend at compile time.
// ForToken returns a client that authenticates as the caller.
func (c *Client) ForToken(token string) adapter.Backend {
	return c.WithToken(token)
}

var (
	_ adapter.Backend     = (*Client)(nil)
	_ adapter.TokenScoper = (*Client)(nil)
)
