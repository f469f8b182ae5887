package normalize

import (
	"errors"
	"strings"

	"partner-sync/internal/model"
)

// Record key aliases seen across backend rows and older app versions.
var (
	nameKeys     = []string{"name", "type", "roomType", "room_type", "service", "item", "title"}
	rentKeys     = []string{"rent", "price", "amount", "rate", "cost"}
	depositKeys  = []string{"deposit", "security", "securityDeposit", "security_deposit"}
	categoryKeys = []string{"category", "group"}
	stockKeys    = []string{"stock", "quantity", "qty"}
)

// PricedList returns the canonical list for any input, [] on failure.
func PricedList(raw any) []model.PricedItem {
	items, _ := ParsePricedList(raw)
	return items
}

// ParsePricedList accepts an array of records (aliases remapped to
// rent/deposit), an object keyed by item name, or a JSON string of either.
// Records without a name are dropped. Duplicate names collapse onto the
// first occurrence, later fields winning.
func ParsePricedList(raw any) ([]model.PricedItem, error) {
	decoded, err := decodeEmbedded("pricing", raw)
	if err != nil {
		return []model.PricedItem{}, err
	}

	var (
		items []model.PricedItem
		errs  []error
	)

	switch v := decoded.(type) {
	case nil:
	case []any:
		for _, entry := range v {
			item, ok := recordFromAny("", entry)
			if !ok {
				errs = append(errs, shapeErr("pricing[]", entry, nil))
				continue
			}
			items = append(items, item)
		}
	case map[string]any:
		for _, name := range sortedKeys(v) {
			item, ok := recordFromAny(name, v[name])
			if !ok {
				errs = append(errs, shapeErr("pricing."+name, v[name], nil))
				continue
			}
			items = append(items, item)
		}
	case []model.PricedItem:
		items = append(items, v...)
	default:
		errs = append(errs, shapeErr("pricing", decoded, nil))
	}

	return dedupeByName(items), errors.Join(errs...)
}

// recordFromAny builds one item. key, when non-empty, supplies the name
// (object-keyed form) and a bare scalar value is taken as the rent.
func recordFromAny(key string, v any) (model.PricedItem, bool) {
	switch x := v.(type) {
	case map[string]any:
		item := recordFromMap(x)
		if key != "" {
			item.Name = strings.TrimSpace(key)
		}
		return item, item.Name != ""
	case string, float64, int, int64:
		if key == "" {
			// Bare label in an array: a unit with no price yet.
			name := scalarString(x)
			return model.PricedItem{Name: name}, name != ""
		}
		rent, _ := model.ParseAmount(x)
		return model.PricedItem{Name: strings.TrimSpace(key), Rent: rent}, true
	default:
		return model.PricedItem{}, false
	}
}

func recordFromMap(m map[string]any) model.PricedItem {
	var item model.PricedItem
	if v, ok := lookup(m, nameKeys...); ok {
		item.Name = scalarString(v)
	}
	if v, ok := lookup(m, rentKeys...); ok {
		item.Rent, _ = model.ParseAmount(v)
	}
	if v, ok := lookup(m, depositKeys...); ok {
		item.Deposit, _ = model.ParseAmount(v)
	}
	if v, ok := lookup(m, categoryKeys...); ok {
		item.Category = scalarString(v)
	}
	if v, ok := lookup(m, stockKeys...); ok {
		if f, ok := model.ParseAmount(v); ok {
			item.Stock = int(f)
		}
	}
	return item
}

func dedupeByName(items []model.PricedItem) []model.PricedItem {
	out := make([]model.PricedItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, seen := index[item.Name]; seen {
			out[i] = item
			continue
		}
		index[item.Name] = len(out)
		out = append(out, item)
	}
	return out
}

// pricingHints are substrings that mark a key as a pricing candidate.
var pricingHints = []string{"pricing", "price", "rate", "rent"}

// FindPricingCandidate is a last-resort recovery path for documents where
// none of the primary pricing keys are present. It scans top-level keys,
// then keys one level down in nested objects, for a name containing a
// pricing hint whose value could hold a list. Scalar numbers, booleans and
// numeric strings are skipped so a bare count like "rooms_rate: 3" or a
// "rent_negotiable: true" flag never matches.
//
// Callers must only use this when the primary key is truly absent.
func FindPricingCandidate(doc map[string]any) (any, bool) {
	if v, ok := scanPricing(doc); ok {
		return v, true
	}
	for _, key := range sortedKeys(doc) {
		nested, ok := doc[key].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := scanPricing(nested); ok {
			return v, true
		}
	}
	return nil, false
}

func scanPricing(doc map[string]any) (any, bool) {
	for _, key := range sortedKeys(doc) {
		if !hasPricingHint(key) {
			continue
		}
		v := doc[key]
		if v == nil || isScalarNumeric(v) {
			continue
		}
		if items, _ := ParsePricedList(v); len(items) > 0 {
			return v, true
		}
	}
	return nil, false
}

func hasPricingHint(key string) bool {
	k := strings.ToLower(key)
	for _, hint := range pricingHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}
