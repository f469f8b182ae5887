package model

import (
	"encoding/json"
	"fmt"
)

// Section is one independently persisted dashboard tab.
type Section string

const (
	SectionDetails Section = "details"
	SectionPhotos  Section = "photos"
	SectionRules   Section = "rules"
	SectionPricing Section = "pricing"
	SectionCatalog Section = "catalog"
	SectionOffers  Section = "offers"
)

// Sections lists every section in the order tabs are shown.
var Sections = []Section{
	SectionDetails,
	SectionPhotos,
	SectionRules,
	SectionPricing,
	SectionCatalog,
	SectionOffers,
}

// ParseSection validates a section name from a route or flag.
func ParseSection(raw string) (Section, error) {
	for _, s := range Sections {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", NewValidationError("section", fmt.Sprintf("unknown section %q", raw))
}

// SupportsSection reports whether a category has the given tab.
func (c Category) SupportsSection(s Section) bool {
	switch s {
	case SectionDetails, SectionPhotos, SectionOffers:
		return true
	case SectionRules, SectionPricing:
		return c == CategoryAccommodation
	case SectionCatalog:
		return c != CategoryAccommodation
	default:
		return false
	}
}

// PatchPayload is the body of one per-tab save. Body holds only the
// section's sub-object, keyed the way the backend expects.
type PatchPayload struct {
	Category Category       `json:"category"`
	Section  Section        `json:"section"`
	Body     map[string]any `json:"body"`
}

// Envelope is the response wrapper every backend endpoint uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Ack is returned by a successful patch.
type Ack struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UploadedAsset is the durable location of an uploaded photo.
type UploadedAsset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	FileName string `json:"fileName,omitempty"`
}

// RemoteDocument is a loosely-typed profile as returned by the backend.
type RemoteDocument map[string]any
