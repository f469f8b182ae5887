package reconcile

import (
	"fmt"
	"slices"
	"sort"

	"partner-sync/internal/model"
	"partner-sync/internal/normalize"
)

// BuildPatch returns the payload for saving one section of profile. The body
// holds only that section's sub-object. Lists are always sent whole since
// the backend replaces rather than merges them.
func BuildPatch(section model.Section, profile model.BusinessProfile) (model.PatchPayload, error) {
	category := profile.Category
	if !category.Valid() {
		return model.PatchPayload{}, model.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}
	if !category.SupportsSection(section) {
		return model.PatchPayload{}, model.NewValidationError("section",
			fmt.Sprintf("%s profiles have no %s section", category, section))
	}

	var body map[string]any
	switch section {
	case model.SectionDetails:
		body = detailsBody(profile)
	case model.SectionPhotos:
		var err error
		if body, err = photosBody(profile.Photos); err != nil {
			return model.PatchPayload{}, err
		}
	case model.SectionRules:
		body = map[string]any{"rules": rulesBody(profile.Rules)}
	case model.SectionPricing:
		body = map[string]any{"roomPricing": roomPricingBody(profile.RoomTypes)}
	case model.SectionCatalog:
		body = map[string]any{"serviceCatalog": map[string]any{
			string(category): catalogBody(profile.Catalog),
		}}
	case model.SectionOffers:
		offers := make([]string, len(profile.Offers))
		copy(offers, profile.Offers)
		body = map[string]any{"offers": map[string]any{string(category): offers}}
	default:
		return model.PatchPayload{}, model.NewValidationError("section", fmt.Sprintf("unknown section %q", section))
	}

	return model.PatchPayload{Category: category, Section: section, Body: body}, nil
}

func detailsBody(p model.BusinessProfile) map[string]any {
	body := map[string]any{
		"ownerName":    p.OwnerName,
		"phoneNumber":  p.PhoneNumber,
		"businessName": p.BusinessName,
		"location":     p.LocationArea,
	}
	if p.Email != "" {
		body["email"] = p.Email
	}
	switch p.Category {
	case model.CategoryAccommodation:
		body["roomsAvailable"] = p.RoomsAvailable
		body["gender"] = p.Gender
		body["noticePeriod"] = p.NoticePeriod
		body["amenities"] = normalize.ToFlagObject(p.Amenities)
	default:
		body["deliveryCharge"] = p.DeliveryCharge
		if p.TradeType != "" {
			body["tradeType"] = p.TradeType
		}
		if p.StoreType != "" {
			body["storeType"] = p.StoreType
		}
	}
	return body
}

// photosBody refuses to build a payload while any slot still holds a local
// preview: those must be uploaded first so only durable URLs are sent.
func photosBody(photos model.PhotoSet) (map[string]any, error) {
	slots := make([]string, 0, len(photos))
	for slot := range photos {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	urls := make(map[string]any, len(slots))
	ids := make(map[string]any, len(slots))
	for _, slot := range slots {
		ref := photos[slot]
		if ref.Pending() {
			return nil, model.NewValidationError("photos."+slot, "photo has not been uploaded yet")
		}
		if ref.URL == "" {
			continue
		}
		urls[slot] = ref.URL
		if ref.PublicID != "" {
			ids[slot] = ref.PublicID
		}
	}
	return map[string]any{"photos": urls, "photoPublicIds": ids}, nil
}

func rulesBody(r model.RuleSet) map[string]any {
	saved := make([]string, len(r.Saved))
	copy(saved, r.Saved)
	return map[string]any{
		"noOutsiders": r.NoOutsiders,
		"fineAmount":  r.FineAmount,
		"savedRules":  saved,
	}
}

func roomPricingBody(items []model.PricedItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{"type": item.Name, "rent": item.Rent}
		if item.Deposit != 0 {
			entry["deposit"] = item.Deposit
		}
		out = append(out, entry)
	}
	return out
}

func catalogBody(items []model.PricedItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{"name": item.Name, "price": item.Rent}
		if item.Category != "" {
			entry["category"] = item.Category
		}
		if item.Stock != 0 {
			entry["stock"] = item.Stock
		}
		out = append(out, entry)
	}
	return out
}

// ChangedSections lists, in tab order, the sections of current that differ
// from baseline and that current's category supports.
func ChangedSections(baseline, current model.BusinessProfile) []model.Section {
	var out []model.Section
	for _, s := range model.Sections {
		if !current.Category.SupportsSection(s) {
			continue
		}
		if sectionChanged(s, baseline, current) {
			out = append(out, s)
		}
	}
	return out
}

func sectionChanged(s model.Section, a, b model.BusinessProfile) bool {
	switch s {
	case model.SectionDetails:
		return detailsOf(a) != detailsOf(b) || !amenitiesEqual(a.Amenities, b.Amenities)
	case model.SectionPhotos:
		return !a.Photos.Equal(b.Photos)
	case model.SectionRules:
		return a.Rules.NoOutsiders != b.Rules.NoOutsiders ||
			a.Rules.FineAmount != b.Rules.FineAmount ||
			!slices.Equal(a.Rules.Saved, b.Rules.Saved)
	case model.SectionPricing:
		return !slices.Equal(a.RoomTypes, b.RoomTypes)
	case model.SectionCatalog:
		return !slices.Equal(a.Catalog, b.Catalog)
	case model.SectionOffers:
		return !slices.Equal(a.Offers, b.Offers)
	}
	return false
}

type details struct {
	ownerName, phoneNumber, email, businessName, locationArea string
	roomsAvailable, gender, noticePeriod                      string
	deliveryCharge, tradeType, storeType                      string
}

func detailsOf(p model.BusinessProfile) details {
	return details{
		ownerName:      p.OwnerName,
		phoneNumber:    p.PhoneNumber,
		email:          p.Email,
		businessName:   p.BusinessName,
		locationArea:   p.LocationArea,
		roomsAvailable: p.RoomsAvailable,
		gender:         p.Gender,
		noticePeriod:   p.NoticePeriod,
		deliveryCharge: p.DeliveryCharge,
		tradeType:      p.TradeType,
		storeType:      p.StoreType,
	}
}

func amenitiesEqual(a, b model.AmenitySet) bool {
	a, b = model.CompleteAmenities(a), model.CompleteAmenities(b)
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !slices.Equal(v, b[k]) {
			return false
		}
	}
	return true
}

// RestoreSection copies one section from src into dst, leaving every other
// section of dst untouched. It is the rollback step after a failed save.
func RestoreSection(dst *model.BusinessProfile, src model.BusinessProfile, section model.Section) {
	src = src.Clone()
	switch section {
	case model.SectionDetails:
		dst.OwnerName = src.OwnerName
		dst.PhoneNumber = src.PhoneNumber
		dst.Email = src.Email
		dst.BusinessName = src.BusinessName
		dst.LocationArea = src.LocationArea
		dst.RoomsAvailable = src.RoomsAvailable
		dst.Gender = src.Gender
		dst.NoticePeriod = src.NoticePeriod
		dst.DeliveryCharge = src.DeliveryCharge
		dst.TradeType = src.TradeType
		dst.StoreType = src.StoreType
		dst.Amenities = src.Amenities
	case model.SectionPhotos:
		dst.Photos = src.Photos
	case model.SectionRules:
		draft := dst.Rules.Draft
		dst.Rules = src.Rules
		dst.Rules.Draft = draft
	case model.SectionPricing:
		dst.RoomTypes = src.RoomTypes
	case model.SectionCatalog:
		dst.Catalog = src.Catalog
	case model.SectionOffers:
		dst.Offers = src.Offers
	}
}

// Absorb copies one saved section from current into the baseline so that
// ChangedSections no longer reports it.
func Absorb(baseline *model.BusinessProfile, current model.BusinessProfile, section model.Section) {
	RestoreSection(baseline, current, section)
}
