// MCP transport for the partner gateway using the official MCP Go SDK.
// Exposes the profile operations as MCP tools.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"partner-sync/internal/model"
)

// === MCP Tool Input Types ===

// GetProfileInput is the input schema for the get_profile tool.
type GetProfileInput struct {
	Email    string `json:"email" jsonschema:"partner email that keys the profile"`
	Category string `json:"category" jsonschema:"business category such as accommodation or laundry"`
}

// SaveSectionInput is the input schema for the save_section tool.
type SaveSectionInput struct {
	Email   string         `json:"email" jsonschema:"partner email that keys the profile"`
	Section string         `json:"section" jsonschema:"one of details, photos, rules, pricing, catalog, offers"`
	Profile map[string]any `json:"profile" jsonschema:"canonical profile; only the named section is sent"`
}

// NormalizeDocumentInput is the input schema for the normalize_document tool.
type NormalizeDocumentInput struct {
	Category string         `json:"category,omitempty" jsonschema:"business category; empty uses the document's service type"`
	Document map[string]any `json:"document" jsonschema:"raw profile document as returned by the backend"`
}

// NewMCPServer creates an MCP server with the profile tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "partner-sync",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Partner profile gateway. Read a partner's reconciled profile, " +
				"save one dashboard section at a time, or normalize a raw backend document.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_profile",
		Description: "Fetch a partner profile and return it in canonical form with every collection present.",
	}, h.mcpGetProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_section",
		Description: "Save one section of a partner profile. Only that section's sub-object is sent to the backend.",
	}, h.mcpSaveSection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_document",
		Description: "Convert a raw backend profile document to the canonical profile without any network call.",
	}, h.mcpNormalizeDocument)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpGetProfile(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProfileInput,
) (*mcp.CallToolResult, *model.BusinessProfile, error) {
	category, ok := model.ParseCategory(input.Category)
	if !ok {
		return nil, nil, h.mcpError(model.NewValidationError("category", "unknown category "+input.Category))
	}

	profile, err := h.loadProfile(ctx, input.Email, category)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, profile, nil
}

func (h *Handler) mcpSaveSection(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SaveSectionInput,
) (*mcp.CallToolResult, *SaveResult, error) {
	section, err := model.ParseSection(input.Section)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	// Decoded by hand so partial profiles pass schema validation.
	var profile model.BusinessProfile
	if err := remarshal(input.Profile, &profile); err != nil {
		return nil, nil, h.mcpError(model.NewValidationError("profile", "not a profile object"))
	}

	result, err := h.saveSection(ctx, input.Email, section, profile)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, result, nil
}

func (h *Handler) mcpNormalizeDocument(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input NormalizeDocumentInput,
) (*mcp.CallToolResult, *model.BusinessProfile, error) {
	profile, err := h.normalizeDocument(NormalizeRequest(input))
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, profile, nil
}

func remarshal(in map[string]any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// mcpError converts engine errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	var fieldErrs model.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fmt.Errorf("VALIDATION_ERROR: %s", fieldErrs.Error())
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
