package normalize

import (
	"errors"
	"strings"

	"partner-sync/internal/model"
)

// otherAmenities collects labels that match no taxonomy category.
const otherAmenities = "other"

// labelIndex maps a lowercased known label to its taxonomy category.
var labelIndex = func() map[string]string {
	idx := make(map[string]string)
	for cat, labels := range model.AmenityTaxonomy {
		for _, l := range labels {
			idx[strings.ToLower(l)] = cat
		}
	}
	return idx
}()

// Amenities returns a complete AmenitySet for any input.
func Amenities(raw any) model.AmenitySet {
	set, _ := ParseAmenities(raw)
	return set
}

// ParseAmenities accepts:
//   - a category map whose values are label arrays (already normalized),
//   - a category map whose values are flag objects ({"WiFi": true}),
//   - a flat flag object or flat label array, classified by the taxonomy,
//   - a JSON string encoding any of the above.
//
// The returned set always has every taxonomy category. A non-nil error
// means some input was discarded.
func ParseAmenities(raw any) (model.AmenitySet, error) {
	decoded, err := decodeEmbedded("amenities", raw)
	if err != nil {
		return model.CompleteAmenities(nil), err
	}

	collected := make(model.AmenitySet)
	var errs []error

	switch v := decoded.(type) {
	case nil:
	case []any:
		for _, label := range labelsFromArray(v) {
			addClassified(collected, label)
		}
	case []string:
		for _, label := range v {
			addClassified(collected, label)
		}
	case map[string]any:
		for _, key := range sortedKeys(v) {
			cat := strings.ToLower(strings.TrimSpace(key))
			if _, known := model.AmenityTaxonomy[cat]; known || isCollection(v[key]) {
				labels, err := categoryLabels(cat, v[key])
				if err != nil {
					errs = append(errs, err)
				}
				collected[cat] = append(collected[cat], labels...)
				continue
			}
			// Flat flag object: the key is a label, not a category.
			if truthy(v[key]) {
				addClassified(collected, key)
			}
		}
	case map[string][]string:
		for cat, labels := range v {
			collected[strings.ToLower(cat)] = append(collected[strings.ToLower(cat)], labels...)
		}
	case model.AmenitySet:
		for cat, labels := range v {
			collected[strings.ToLower(cat)] = append(collected[strings.ToLower(cat)], labels...)
		}
	case map[string]map[string]bool:
		for cat, flags := range v {
			key := strings.ToLower(cat)
			for label, on := range flags {
				if on {
					collected[key] = append(collected[key], label)
				}
			}
		}
	default:
		errs = append(errs, shapeErr("amenities", decoded, nil))
	}

	return model.CompleteAmenities(collected), errors.Join(errs...)
}

// categoryLabels reduces one category's value to its selected labels.
func categoryLabels(cat string, v any) ([]string, error) {
	decoded, err := decodeEmbedded("amenities."+cat, v)
	if err != nil {
		// Not JSON: treat as a comma-separated list.
		if s, ok := v.(string); ok {
			return splitList(s), nil
		}
		return nil, err
	}

	switch x := decoded.(type) {
	case nil:
		return nil, nil
	case []any:
		return labelsFromArray(x), nil
	case map[string]any:
		var out []string
		for _, label := range sortedKeys(x) {
			if truthy(x[label]) {
				out = append(out, label)
			}
		}
		return out, nil
	case string:
		return splitList(x), nil
	default:
		return nil, shapeErr("amenities."+cat, decoded, nil)
	}
}

func labelsFromArray(arr []any) []string {
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func addClassified(set model.AmenitySet, label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	cat, ok := labelIndex[strings.ToLower(label)]
	if !ok {
		cat = otherAmenities
	}
	set[cat] = append(set[cat], label)
}

func isCollection(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

// ToFlagObject renders selected labels as the flag-object form some
// backend rows store. Inverse of the flag-object branch of ParseAmenities.
func ToFlagObject(set model.AmenitySet) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(set))
	for cat, labels := range set {
		flags := make(map[string]bool, len(labels))
		for _, l := range labels {
			flags[l] = true
		}
		out[cat] = flags
	}
	return out
}
