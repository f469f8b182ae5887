package reconcile

import "partner-sync/internal/model"

// Merge combines a normalized remote document, the previous in-memory
// profile and context defaults into one profile. Per field, highest first:
// a value present in remote, a non-empty value in prev, a value in
// defaults, the zero value. A nil remote means nothing was fetched.
//
// Merge does not mutate its inputs and the result shares no slices or maps
// with them. Merging the same remote twice gives the same profile as
// merging it once.
func Merge(prev model.BusinessProfile, remote *model.PartialProfile, defaults model.PartialProfile) model.BusinessProfile {
	var r model.PartialProfile
	if remote != nil {
		r = *remote
	}

	out := model.NewProfile("")
	out.Category = pickCategory(r.Category, prev.Category, defaults.Category)
	out.ID = pick(r.ID, prev.ID, defaults.ID)
	out.OwnerName = pick(r.OwnerName, prev.OwnerName, defaults.OwnerName)
	out.PhoneNumber = pick(r.PhoneNumber, prev.PhoneNumber, defaults.PhoneNumber)
	out.Email = pick(r.Email, prev.Email, defaults.Email)
	out.BusinessName = pick(r.BusinessName, prev.BusinessName, defaults.BusinessName)
	out.LocationArea = pick(r.LocationArea, prev.LocationArea, defaults.LocationArea)
	out.RoomsAvailable = pick(r.RoomsAvailable, prev.RoomsAvailable, defaults.RoomsAvailable)
	out.Gender = pick(r.Gender, prev.Gender, defaults.Gender)
	out.NoticePeriod = pick(r.NoticePeriod, prev.NoticePeriod, defaults.NoticePeriod)
	out.DeliveryCharge = pick(r.DeliveryCharge, prev.DeliveryCharge, defaults.DeliveryCharge)
	out.TradeType = pick(r.TradeType, prev.TradeType, defaults.TradeType)
	out.StoreType = pick(r.StoreType, prev.StoreType, defaults.StoreType)

	out.Amenities = mergeAmenities(r.Amenities, prev.Amenities, defaults.Amenities)
	out.RoomTypes = pickPriced(r.RoomTypes, prev.RoomTypes, defaults.RoomTypes)
	out.Catalog = pickPriced(r.Catalog, prev.Catalog, defaults.Catalog)
	out.Offers = pickStrings(r.Offers, prev.Offers, defaults.Offers)
	out.Photos = mergePhotos(r.Photos, prev.Photos, defaults.Photos)
	out.Rules = mergeRules(r.Rules, prev.Rules, defaults.Rules)

	return out
}

func pick(remote *string, prev string, def *string) string {
	switch {
	case remote != nil:
		return *remote
	case prev != "":
		return prev
	default:
		return model.Deref(def)
	}
}

func pickCategory(remote *model.Category, prev model.Category, def *model.Category) model.Category {
	switch {
	case remote != nil:
		return *remote
	case prev != "":
		return prev
	case def != nil:
		return *def
	default:
		return ""
	}
}

func pickPriced(remote, prev, def []model.PricedItem) []model.PricedItem {
	var src []model.PricedItem
	switch {
	case remote != nil:
		src = remote
	case len(prev) > 0:
		src = prev
	default:
		src = def
	}
	out := make([]model.PricedItem, len(src))
	copy(out, src)
	return out
}

func pickStrings(remote, prev, def []string) []string {
	var src []string
	switch {
	case remote != nil:
		src = remote
	case len(prev) > 0:
		src = prev
	default:
		src = def
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// mergeAmenities always returns the full taxonomy. prev counts as present
// only when at least one label is selected, since an empty taxonomy is
// what NewProfile starts with.
func mergeAmenities(remote, prev, def model.AmenitySet) model.AmenitySet {
	switch {
	case remote != nil:
		return model.CompleteAmenities(remote)
	case hasLabels(prev):
		return model.CompleteAmenities(prev)
	default:
		return model.CompleteAmenities(def)
	}
}

func hasLabels(set model.AmenitySet) bool {
	for _, labels := range set {
		if len(labels) > 0 {
			return true
		}
	}
	return false
}

// mergePhotos works slot by slot. A remote slot replaces the persisted
// reference but a pending local preview in prev survives on top of it.
func mergePhotos(remote, prev, def model.PhotoSet) model.PhotoSet {
	out := make(model.PhotoSet, len(prev)+len(remote))
	for slot, ref := range def {
		if !ref.Empty() {
			out[slot] = ref
		}
	}
	for slot, ref := range prev {
		if !ref.Empty() {
			out[slot] = ref
		}
	}
	for slot, ref := range remote {
		if ref.Empty() {
			continue
		}
		merged := model.PhotoRef{URL: ref.URL, PublicID: ref.PublicID}
		if local := prev[slot].Local; local != nil {
			merged.Local = local
		}
		out[slot] = merged
	}
	return out
}

func mergeRules(remote *model.RuleSet, prev model.RuleSet, def *model.RuleSet) model.RuleSet {
	var out model.RuleSet
	switch {
	case remote != nil:
		out = *remote
	case !rulesEmpty(prev):
		out = prev
	case def != nil:
		out = *def
	}
	saved := make([]string, len(out.Saved))
	copy(saved, out.Saved)
	out.Saved = saved
	// The draft rule is local typing state and never comes from remote.
	out.Draft = prev.Draft
	return out
}

func rulesEmpty(r model.RuleSet) bool {
	return !r.NoOutsiders && r.FineAmount == "" && len(r.Saved) == 0
}
