package model

// PartialProfile is a presence-aware profile: nil pointers and nil
// collections mean "not supplied". It is the normalized form of a remote
// document and the shape of context defaults (signup payloads held in memory).
type PartialProfile struct {
	ID           *string   `json:"id,omitempty"`
	Category     *Category `json:"category,omitempty"`
	OwnerName    *string   `json:"ownerName,omitempty"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	Email        *string   `json:"email,omitempty"`
	BusinessName *string   `json:"businessName,omitempty"`
	LocationArea *string   `json:"locationArea,omitempty"`

	RoomsAvailable *string `json:"roomsAvailable,omitempty"`
	Gender         *string `json:"gender,omitempty"`
	NoticePeriod   *string `json:"noticePeriod,omitempty"`
	DeliveryCharge *string `json:"deliveryCharge,omitempty"`
	TradeType      *string `json:"tradeType,omitempty"`
	StoreType      *string `json:"storeType,omitempty"`

	Amenities AmenitySet   `json:"amenities,omitempty"`
	RoomTypes []PricedItem `json:"roomTypes,omitempty"`
	Catalog   []PricedItem `json:"catalog,omitempty"`
	Offers    []string     `json:"offers,omitempty"`
	Photos    PhotoSet     `json:"photos,omitempty"`
	Rules     *RuleSet     `json:"rules,omitempty"`
}

// String returns a pointer to s, or nil for the empty string.
// Blank remote values are treated as absent so they never shadow a local edit.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PartialFromProfile lifts a complete profile into a partial one, keeping
// only non-empty values. Used to turn a signup payload into context defaults.
func PartialFromProfile(p BusinessProfile) PartialProfile {
	var out PartialProfile
	out.ID = String(p.ID)
	if p.Category != "" {
		c := p.Category
		out.Category = &c
	}
	out.OwnerName = String(p.OwnerName)
	out.PhoneNumber = String(p.PhoneNumber)
	out.Email = String(p.Email)
	out.BusinessName = String(p.BusinessName)
	out.LocationArea = String(p.LocationArea)
	out.RoomsAvailable = String(p.RoomsAvailable)
	out.Gender = String(p.Gender)
	out.NoticePeriod = String(p.NoticePeriod)
	out.DeliveryCharge = String(p.DeliveryCharge)
	out.TradeType = String(p.TradeType)
	out.StoreType = String(p.StoreType)
	if len(p.Amenities) > 0 {
		out.Amenities = p.Amenities.Clone()
	}
	if len(p.RoomTypes) > 0 {
		out.RoomTypes = clonePriced(p.RoomTypes)
	}
	if len(p.Catalog) > 0 {
		out.Catalog = clonePriced(p.Catalog)
	}
	if len(p.Offers) > 0 {
		out.Offers = cloneStrings(p.Offers)
	}
	if len(p.Photos) > 0 {
		out.Photos = p.Photos.Clone()
	}
	if p.Rules.NoOutsiders || p.Rules.FineAmount != "" || len(p.Rules.Saved) > 0 {
		r := p.Rules
		r.Saved = cloneStrings(p.Rules.Saved)
		out.Rules = &r
	}
	return out
}
