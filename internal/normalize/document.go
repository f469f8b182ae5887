package normalize

import (
	"log/slog"

	"partner-sync/internal/model"
)

// Key aliases per canonical field, most specific first.
var (
	idKeys           = []string{"id", "_id", "property_id", "store_id"}
	ownerKeys        = []string{"owner_name", "ownerName", "owner"}
	phoneKeys        = []string{"phone_number", "phoneNumber", "phone", "contact_number"}
	emailKeys        = []string{"email", "owner_email"}
	businessNameKeys = []string{"business_name", "businessName", "property_name", "propertyName", "store_name", "storeName", "name"}
	locationKeys     = []string{"location", "location_area", "locationArea", "area", "address"}
	roomsKeys        = []string{"rooms_available", "roomsAvailable", "total_rooms"}
	genderKeys       = []string{"gender", "gender_preference", "genderPreference"}
	noticeKeys       = []string{"notice_period", "noticePeriod"}
	deliveryKeys     = []string{"delivery_charge", "deliveryCharge"}
	tradeKeys        = []string{"trade_type", "tradeType", "trade"}
	storeTypeKeys    = []string{"store_type", "storeType"}
	serviceTypeKeys  = []string{"service_type", "serviceType", "category", "business_type"}
	amenityKeys      = []string{"amenities"}
	roomPricingKeys  = []string{"room_pricing", "roomPricing", "room_types", "roomTypes", "pricing"}
	catalogKeys      = []string{"service_catalog", "serviceCatalog", "services", "products", "inventory"}
	offerKeys        = []string{"offers"}
	photoKeys        = []string{"property_images", "propertyImages", "photos", "images", "store_images"}
	publicIDKeys     = []string{"photo_public_ids", "photoPublicIds"}
	ruleKeys         = []string{"rules", "house_rules"}
)

// Decoder turns remote documents into partial profiles.
type Decoder struct {
	CDNBase string       // photo delivery base, see CDNBase()
	Logger  *slog.Logger // malformed fields are logged here; nil disables
}

// Document maps every known alias of doc onto the canonical fields.
// Absent, null or unparseable fields stay absent; the failures are logged
// and never returned.
func (d *Decoder) Document(doc model.RemoteDocument, category model.Category) model.PartialProfile {
	var p model.PartialProfile
	if doc == nil {
		return p
	}

	p.ID = d.scalar(doc, idKeys)
	p.OwnerName = d.scalar(doc, ownerKeys)
	p.PhoneNumber = d.scalar(doc, phoneKeys)
	p.Email = d.scalar(doc, emailKeys)
	p.BusinessName = d.scalar(doc, businessNameKeys)
	p.LocationArea = d.scalar(doc, locationKeys)
	p.RoomsAvailable = d.scalar(doc, roomsKeys)
	p.NoticePeriod = d.scalar(doc, noticeKeys)
	p.DeliveryCharge = d.scalar(doc, deliveryKeys)
	p.TradeType = d.scalar(doc, tradeKeys)
	p.StoreType = d.scalar(doc, storeTypeKeys)
	if g := d.scalar(doc, genderKeys); g != nil {
		p.Gender = model.String(GenderLabel(*g))
	}

	if category == "" {
		if raw := d.scalar(doc, serviceTypeKeys); raw != nil {
			if c, ok := model.ParseCategory(*raw); ok {
				category = c
			}
		}
	}
	if category != "" {
		c := category
		p.Category = &c
	}

	if raw, ok := lookup(doc, amenityKeys...); ok {
		set, err := ParseAmenities(raw)
		d.logShape("amenities", err)
		if recovered(err, labelCount(set)) {
			p.Amenities = set
		}
	}

	if category == model.CategoryAccommodation {
		p.RoomTypes = d.roomTypes(doc)
	} else if raw, ok := lookup(doc, catalogKeys...); ok {
		items, err := ParsePricedList(categoryEntry(mustDecode(raw), category))
		d.logShape("catalog", err)
		if recovered(err, len(items)) {
			p.Catalog = items
		}
	}

	if raw, ok := lookup(doc, offerKeys...); ok {
		offers, err := Offers(raw, category)
		d.logShape("offers", err)
		if recovered(err, len(offers)) {
			p.Offers = offers
		}
	}

	if raw, ok := lookup(doc, photoKeys...); ok {
		ids, _ := lookup(doc, publicIDKeys...)
		photos, err := Photos(raw, ids, d.CDNBase)
		d.logShape("photos", err)
		if recovered(err, len(photos)) {
			p.Photos = photos
		}
	}

	if rules, ok := d.rules(doc); ok {
		p.Rules = &rules
	}

	return p
}

// roomTypes reads the primary pricing keys and only falls back to the
// heuristic search when all of them are absent.
func (d *Decoder) roomTypes(doc model.RemoteDocument) []model.PricedItem {
	raw, ok := lookup(doc, roomPricingKeys...)
	if !ok {
		raw, ok = FindPricingCandidate(doc)
		if !ok {
			return nil
		}
		if d.Logger != nil {
			d.Logger.Debug("room pricing recovered by key search")
		}
	}
	items, err := ParsePricedList(raw)
	d.logShape("roomPricing", err)
	if !recovered(err, len(items)) {
		return nil
	}
	for i := range items {
		items[i].Name = RoomTypeLabel(items[i].Name)
	}
	return dedupeByName(items)
}

func (d *Decoder) rules(doc model.RemoteDocument) (model.RuleSet, bool) {
	if raw, ok := lookup(doc, ruleKeys...); ok {
		rules, err := Rules(raw)
		d.logShape("rules", err)
		if err == nil {
			return rules, true
		}
	}
	// Flat columns on older property rows.
	flat := map[string]any{}
	if v, ok := lookup(doc, "no_outsiders", "noOutsiders"); ok {
		flat["noOutsiders"] = v
	}
	if v, ok := lookup(doc, "fine_amount", "fineAmount"); ok {
		flat["fineAmount"] = v
	}
	if len(flat) == 0 {
		return model.RuleSet{}, false
	}
	rules, _ := Rules(flat)
	return rules, true
}

// recovered reports whether a parsed collection counts as present. A field
// that failed to parse and yielded nothing stays absent so it cannot shadow
// the draft or the defaults.
func recovered(err error, n int) bool {
	return err == nil || n > 0
}

func labelCount(set model.AmenitySet) int {
	n := 0
	for _, labels := range set {
		n += len(labels)
	}
	return n
}

func (d *Decoder) scalar(doc model.RemoteDocument, keys []string) *string {
	v, ok := lookup(doc, keys...)
	if !ok {
		return nil
	}
	return model.String(scalarString(v))
}

func (d *Decoder) logShape(field string, err error) {
	if err == nil || d.Logger == nil {
		return
	}
	d.Logger.Warn("malformed remote field recovered to default",
		slog.String("field", field),
		slog.String("error", err.Error()),
	)
}

// mustDecode decodes embedded JSON, returning the raw value on failure so
// the downstream parser reports the shape error.
func mustDecode(v any) any {
	decoded, err := decodeEmbedded("", v)
	if err != nil {
		return v
	}
	return decoded
}
