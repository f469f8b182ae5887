// Package model defines the canonical partner profile, its partial
// (presence-aware) counterpart and the error taxonomy shared by all packages.
package model

import (
	"slices"
	"sort"
)

// BusinessProfile is the canonical in-memory profile the dashboard edits.
// Scalar fields hold form strings; absence is the empty string.
type BusinessProfile struct {
	ID           string   `json:"id,omitempty"`
	Category     Category `json:"category"`
	OwnerName    string   `json:"ownerName"`
	PhoneNumber  string   `json:"phoneNumber"`
	Email        string   `json:"email"`
	BusinessName string   `json:"businessName"`
	LocationArea string   `json:"locationArea"`

	// Accommodation
	RoomsAvailable string `json:"roomsAvailable,omitempty"`
	Gender         string `json:"gender,omitempty"`
	NoticePeriod   string `json:"noticePeriod,omitempty"`

	// Water, repair, store
	DeliveryCharge string `json:"deliveryCharge,omitempty"`
	TradeType      string `json:"tradeType,omitempty"`
	StoreType      string `json:"storeType,omitempty"`

	Amenities AmenitySet   `json:"amenities"`
	RoomTypes []PricedItem `json:"roomTypes"`
	Catalog   []PricedItem `json:"catalog"`
	Offers    []string     `json:"offers"`
	Photos    PhotoSet     `json:"photos"`
	Rules     RuleSet      `json:"rules"`
}

// PricedItem is one sellable unit: a room type, service, product or inventory line.
// Name is unique within its list.
type PricedItem struct {
	Name     string  `json:"name"`
	Rent     float64 `json:"rent"`
	Deposit  float64 `json:"deposit,omitempty"`
	Category string  `json:"category,omitempty"`
	Stock    int     `json:"stock,omitempty"`
}

// AmenitySet maps amenity category → selected labels.
type AmenitySet map[string][]string

// PhotoSet maps slot name → photo reference. Missing slots are absent.
type PhotoSet map[string]PhotoRef

// PhotoRef points at a persisted asset, a pending local file, or both
// (a replacement that has not been uploaded yet).
type PhotoRef struct {
	URL      string     `json:"url,omitempty"`
	PublicID string     `json:"publicId,omitempty"`
	Local    *LocalFile `json:"-"`
}

// Pending reports whether the slot holds a local file awaiting upload.
func (p PhotoRef) Pending() bool {
	return p.Local != nil
}

// Empty reports whether the slot holds nothing at all.
func (p PhotoRef) Empty() bool {
	return p.URL == "" && p.PublicID == "" && p.Local == nil
}

// LocalFile is an ephemeral, never-persisted photo preview.
type LocalFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// RuleSet holds accommodation house rules. Draft is the rule being typed
// and is never sent to the backend.
type RuleSet struct {
	NoOutsiders bool     `json:"noOutsiders"`
	FineAmount  string   `json:"fineAmount"`
	Saved       []string `json:"savedRules"`
	Draft       string   `json:"-"`
}

// NewProfile returns an empty profile with every collection initialized
// and the full amenity taxonomy present.
func NewProfile(c Category) BusinessProfile {
	return BusinessProfile{
		Category:  c,
		Amenities: CompleteAmenities(nil),
		RoomTypes: []PricedItem{},
		Catalog:   []PricedItem{},
		Offers:    []string{},
		Photos:    PhotoSet{},
		Rules:     RuleSet{Saved: []string{}},
	}
}

// CompleteAmenities returns a copy of set with every taxonomy category present.
// Categories outside the taxonomy are kept. Labels are sorted so that two
// sets with the same members compare equal.
func CompleteAmenities(set AmenitySet) AmenitySet {
	out := make(AmenitySet, len(AmenityTaxonomy))
	for _, c := range AmenityCategories() {
		out[c] = []string{}
	}
	for c, labels := range set {
		out[c] = sortedUnique(labels)
	}
	return out
}

func sortedUnique(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy safe to mutate independently.
func (p BusinessProfile) Clone() BusinessProfile {
	c := p
	c.Amenities = p.Amenities.Clone()
	c.RoomTypes = clonePriced(p.RoomTypes)
	c.Catalog = clonePriced(p.Catalog)
	c.Offers = cloneStrings(p.Offers)
	c.Photos = p.Photos.Clone()
	c.Rules.Saved = cloneStrings(p.Rules.Saved)
	return c
}

// Clone returns a deep copy of the set.
func (a AmenitySet) Clone() AmenitySet {
	if a == nil {
		return nil
	}
	out := make(AmenitySet, len(a))
	for k, v := range a {
		out[k] = cloneStrings(v)
	}
	return out
}

// Clone returns a copy of the photo set. Local file bytes are shared.
func (ps PhotoSet) Clone() PhotoSet {
	if ps == nil {
		return nil
	}
	out := make(PhotoSet, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// Equal compares two photo sets slot by slot. Pending local files compare
// by identity.
func (ps PhotoSet) Equal(other PhotoSet) bool {
	if len(ps) != len(other) {
		return false
	}
	for k, v := range ps {
		o, ok := other[k]
		if !ok || o.URL != v.URL || o.PublicID != v.PublicID || o.Local != v.Local {
			return false
		}
	}
	return true
}

func clonePriced(items []PricedItem) []PricedItem {
	if items == nil {
		return nil
	}
	return slices.Clone(items)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}
