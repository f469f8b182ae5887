// Package reconcile merges remote profile documents into the local draft,
// builds per-section save payloads and computes what changed between the
// last persisted baseline and the draft being edited.
package reconcile

import (
	"slices"

	"partner-sync/internal/model"
)

// ItemDiff describes how a priced list moved from one state to another.
// The backend only accepts whole-list replaces, so the diff is used to
// summarize a save, never to drive incremental calls.
type ItemDiff struct {
	ToAdd    []string     // Names in desired but not current
	ToRemove []string     // Names in current but not desired
	ToUpdate []ItemChange // Names in both with different values
}

// ItemChange is one item whose price, deposit, category or stock changed.
type ItemChange struct {
	Name string
	Old  PricedValues
	New  PricedValues
}

// PricedValues is the mutable part of a priced item.
type PricedValues struct {
	Rent     float64
	Deposit  float64
	Category string
	Stock    int
}

// IsEmpty returns true if the lists hold the same items with the same values.
func (d *ItemDiff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0 && len(d.ToUpdate) == 0
}

// DiffPricedItems computes the delta between two priced lists, matching by
// name. Output follows desired order for adds and updates and current order
// for removals.
func DiffPricedItems(current, desired []model.PricedItem) *ItemDiff {
	diff := &ItemDiff{}

	currentByName := make(map[string]model.PricedItem, len(current))
	for _, item := range current {
		currentByName[item.Name] = item
	}
	desiredByName := make(map[string]bool, len(desired))

	for _, item := range desired {
		desiredByName[item.Name] = true
		old, exists := currentByName[item.Name]
		if !exists {
			diff.ToAdd = append(diff.ToAdd, item.Name)
			continue
		}
		if valuesOf(old) != valuesOf(item) {
			diff.ToUpdate = append(diff.ToUpdate, ItemChange{
				Name: item.Name,
				Old:  valuesOf(old),
				New:  valuesOf(item),
			})
		}
	}

	for _, item := range current {
		if !desiredByName[item.Name] {
			diff.ToRemove = append(diff.ToRemove, item.Name)
		}
	}

	return diff
}

func valuesOf(item model.PricedItem) PricedValues {
	return PricedValues{Rent: item.Rent, Deposit: item.Deposit, Category: item.Category, Stock: item.Stock}
}

// StringDiff describes the mutations between two string lists treated as sets.
type StringDiff struct {
	ToAdd    []string
	ToRemove []string
}

// IsEmpty returns true if both lists hold the same members.
func (d *StringDiff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// DiffStrings computes a set difference between current and desired,
// keeping each side's order.
func DiffStrings(current, desired []string) *StringDiff {
	diff := &StringDiff{}
	for _, s := range desired {
		if !slices.Contains(current, s) && !slices.Contains(diff.ToAdd, s) {
			diff.ToAdd = append(diff.ToAdd, s)
		}
	}
	for _, s := range current {
		if !slices.Contains(desired, s) && !slices.Contains(diff.ToRemove, s) {
			diff.ToRemove = append(diff.ToRemove, s)
		}
	}
	return diff
}
