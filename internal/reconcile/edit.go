package reconcile

import (
	"slices"
	"strings"

	"partner-sync/internal/model"
)

// PricedField names the numeric attribute a pricing form input edits.
type PricedField string

const (
	FieldRent    PricedField = "rent"
	FieldDeposit PricedField = "deposit"
	FieldStock   PricedField = "stock"
)

// UpsertPricedField sets one field of the item called name, updating it in
// place or appending a new item when no item has that name. The input
// slice is not modified.
func UpsertPricedField(items []model.PricedItem, name string, field PricedField, value float64) []model.PricedItem {
	name = strings.TrimSpace(name)
	out := slices.Clone(items)
	if name == "" {
		return out
	}
	i := slices.IndexFunc(out, func(it model.PricedItem) bool { return it.Name == name })
	if i < 0 {
		out = append(out, model.PricedItem{Name: name})
		i = len(out) - 1
	}
	switch field {
	case FieldRent:
		out[i].Rent = value
	case FieldDeposit:
		out[i].Deposit = value
	case FieldStock:
		out[i].Stock = int(value)
	}
	return out
}

// UpsertPricedItem replaces the item with the same name or appends it.
func UpsertPricedItem(items []model.PricedItem, item model.PricedItem) []model.PricedItem {
	item.Name = strings.TrimSpace(item.Name)
	out := slices.Clone(items)
	if item.Name == "" {
		return out
	}
	if i := slices.IndexFunc(out, func(it model.PricedItem) bool { return it.Name == item.Name }); i >= 0 {
		out[i] = item
		return out
	}
	return append(out, item)
}

// RemovePricedItem drops the item called name. Unknown names are a no-op.
func RemovePricedItem(items []model.PricedItem, name string) []model.PricedItem {
	out := make([]model.PricedItem, 0, len(items))
	for _, it := range items {
		if it.Name != name {
			out = append(out, it)
		}
	}
	return out
}

// AddOffer appends a trimmed, non-blank offer.
func AddOffer(offers []string, offer string) []string {
	out := slices.Clone(offers)
	if offer = strings.TrimSpace(offer); offer == "" {
		return out
	}
	return append(out, offer)
}

// DeleteOffer removes the offer at idx. Out-of-range indexes are a no-op.
func DeleteOffer(offers []string, idx int) []string {
	out := slices.Clone(offers)
	if idx < 0 || idx >= len(out) {
		return out
	}
	return slices.Delete(out, idx, idx+1)
}

// ToggleAmenity flips label within category, returning a completed copy.
func ToggleAmenity(set model.AmenitySet, category, label string) model.AmenitySet {
	out := model.CompleteAmenities(set)
	labels := out[category]
	if i := slices.Index(labels, label); i >= 0 {
		out[category] = slices.Delete(labels, i, i+1)
		return out
	}
	labels = append(labels, label)
	slices.Sort(labels)
	out[category] = labels
	return out
}

// AddRule commits the draft rule to the saved list and clears the draft.
// A blank or duplicate draft only clears the draft.
func AddRule(r model.RuleSet) model.RuleSet {
	out := r
	out.Saved = slices.Clone(r.Saved)
	draft := strings.TrimSpace(r.Draft)
	out.Draft = ""
	if draft != "" && !slices.Contains(out.Saved, draft) {
		out.Saved = append(out.Saved, draft)
	}
	return out
}

// RemoveRule deletes the saved rule at idx.
func RemoveRule(r model.RuleSet, idx int) model.RuleSet {
	out := r
	out.Saved = slices.Clone(r.Saved)
	if idx >= 0 && idx < len(out.Saved) {
		out.Saved = slices.Delete(out.Saved, idx, idx+1)
	}
	return out
}
