package normalize

import (
	"strings"

	"partner-sync/internal/model"
)

// Offers accepts an array of strings, an object keyed by category
// ({"laundry": ["10% off"]}) or a JSON string of either. For the keyed form
// only the entry for category is used.
func Offers(raw any, category model.Category) ([]string, error) {
	decoded, err := decodeEmbedded("offers", raw)
	if err != nil {
		return []string{}, err
	}
	decoded = categoryEntry(decoded, category)

	switch v := decoded.(type) {
	case nil:
		return []string{}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s := offerText(entry); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}, nil
		}
		return []string{}, nil
	default:
		return []string{}, shapeErr("offers", decoded, nil)
	}
}

func offerText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		if t, ok := lookup(x, "text", "title", "offer", "description"); ok {
			return scalarString(t)
		}
	}
	return ""
}

// categoryEntry unwraps {"<category>": value} wrappers used by the stores
// resource for service_catalog and offers. Any other value passes through.
func categoryEntry(v any, category model.Category) any {
	m, ok := v.(map[string]any)
	if !ok || category == "" {
		return v
	}
	if entry, ok := m[string(category)]; ok {
		return entry
	}
	// Wrapped under another category only: nothing for this one.
	for _, c := range model.Categories {
		if _, ok := m[string(c)]; ok {
			return nil
		}
	}
	return v
}

// Rules decodes a rules object (or JSON string).
func Rules(raw any) (model.RuleSet, error) {
	rules := model.RuleSet{Saved: []string{}}
	decoded, err := decodeEmbedded("rules", raw)
	if err != nil {
		return rules, err
	}

	switch v := decoded.(type) {
	case nil:
	case map[string]any:
		if x, ok := lookup(v, "noOutsiders", "no_outsiders", "noOutsidersAllowed"); ok {
			rules.NoOutsiders = truthy(x)
		}
		if x, ok := lookup(v, "fineAmount", "fine_amount", "fine"); ok {
			rules.FineAmount = scalarString(x)
		}
		if x, ok := lookup(v, "savedRules", "saved_rules", "rules", "custom"); ok {
			saved, err := Offers(x, "")
			if err != nil {
				return rules, err
			}
			rules.Saved = saved
		}
	case []any:
		// Older rows store just the list of rule strings.
		saved, _ := Offers(v, "")
		rules.Saved = saved
	default:
		return rules, shapeErr("rules", decoded, nil)
	}
	return rules, nil
}
