package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-sync/internal/model"
)

func TestAmenitiesFlagObjectRoundTrip(t *testing.T) {
	for cat, known := range model.AmenityTaxonomy {
		subsets := [][]string{{}, known[:1], known}
		for _, subset := range subsets {
			flags := ToFlagObject(model.AmenitySet{cat: subset})

			got := Amenities(flags)
			assert.ElementsMatch(t, subset, got[cat], "flag object for %s", cat)

			// Same thing after a trip through JSON, as the backend stores it.
			raw, err := json.Marshal(flags)
			require.NoError(t, err)
			got = Amenities(string(raw))
			assert.ElementsMatch(t, subset, got[cat], "JSON flag object for %s", cat)
		}
	}
}

func TestAmenitiesArrayPassThrough(t *testing.T) {
	in := map[string]any{
		"furniture": []any{"Bed", "Wardrobe"},
		"utilities": []any{"WiFi"},
	}

	got := Amenities(in)

	assert.ElementsMatch(t, []string{"Bed", "Wardrobe"}, got["furniture"])
	assert.ElementsMatch(t, []string{"WiFi"}, got["utilities"])
	for _, c := range model.AmenityCategories() {
		assert.Contains(t, got, c, "category %s must always be present", c)
	}
}

func TestAmenitiesFlatLabels(t *testing.T) {
	got := Amenities([]any{"WiFi", "CCTV", "Rooftop"})

	assert.Equal(t, []string{"WiFi"}, got["utilities"])
	assert.Equal(t, []string{"CCTV"}, got["safety"])
	assert.Equal(t, []string{"Rooftop"}, got["other"])
}

func TestAmenitiesFlatFlagObject(t *testing.T) {
	got := Amenities(map[string]any{"Geyser": true, "Lift": false, "Gym": 1})

	assert.Equal(t, []string{"Geyser"}, got["bathroom"])
	assert.Equal(t, []string{"Gym"}, got["common"])
}

func TestSafeDefaultTotality(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"not json", "not json"},
		{"number", 42.0},
		{"bool", true},
		{"empty string", ""},
		{"null literal", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				set := Amenities(tt.raw)
				assert.Len(t, set, len(model.AmenityCategories()))
				for _, labels := range set {
					assert.NotNil(t, labels)
					assert.Empty(t, labels)
				}

				items := PricedList(tt.raw)
				assert.NotNil(t, items)
				assert.Empty(t, items)
			})
		})
	}
}

func TestParseAmenitiesReportsShapeError(t *testing.T) {
	_, err := ParseAmenities("{broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedShape))
}

func TestPricingAliasEquivalence(t *testing.T) {
	a := PricedList([]any{map[string]any{"type": "Single Sharing", "price": 5000.0, "security": 1000.0}})
	b := PricedList([]any{map[string]any{"type": "Single Sharing", "rent": 5000.0, "deposit": 1000.0}})

	assert.Equal(t, b, a)
	assert.Equal(t, []model.PricedItem{{Name: "Single Sharing", Rent: 5000, Deposit: 1000}}, a)
}

func TestPricedListObjectKeyedByName(t *testing.T) {
	raw := `{"Double Sharing": {"amount": "6,500", "security_deposit": 2000}, "Single Sharing": 8000}`

	got := PricedList(raw)

	assert.Equal(t, []model.PricedItem{
		{Name: "Double Sharing", Rent: 6500, Deposit: 2000},
		{Name: "Single Sharing", Rent: 8000},
	}, got)
}

func TestPricedListDedupesByName(t *testing.T) {
	got := PricedList([]any{
		map[string]any{"name": "Wash & Fold", "price": 50.0},
		map[string]any{"name": "Dry Clean", "price": 120.0},
		map[string]any{"name": "Wash & Fold", "price": 60.0, "category": "clothes"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, model.PricedItem{Name: "Wash & Fold", Rent: 60, Category: "clothes"}, got[0])
}

func TestPricedListInventoryFields(t *testing.T) {
	got := PricedList([]any{map[string]any{"item": "20L Can", "cost": "40", "qty": 12.0}})

	assert.Equal(t, []model.PricedItem{{Name: "20L Can", Rent: 40, Stock: 12}}, got)
}

func TestFindPricingCandidate(t *testing.T) {
	tests := []struct {
		name   string
		doc    map[string]any
		wantOK bool
	}{
		{
			name:   "top-level list",
			doc:    map[string]any{"price_list": []any{map[string]any{"type": "single", "rent": 4000.0}}},
			wantOK: true,
		},
		{
			name:   "json string candidate",
			doc:    map[string]any{"rates": `[{"type":"double","rent":3000}]`},
			wantOK: true,
		},
		{
			name:   "nested one level",
			doc:    map[string]any{"details": map[string]any{"room_rates": map[string]any{"Single Sharing": 5000.0}}},
			wantOK: true,
		},
		{
			name:   "numeric scalar excluded",
			doc:    map[string]any{"rooms_rate": 3.0, "rent_negotiable": true, "base_price": "5000"},
			wantOK: false,
		},
		{
			name:   "unrelated keys",
			doc:    map[string]any{"owner_name": "Asha", "rooms_available": 4.0},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FindPricingCandidate(tt.doc)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRoomTypeLabel(t *testing.T) {
	tests := map[string]string{
		"single":          "Single Sharing",
		"1":               "Single Sharing",
		"single_sharing":  "Single Sharing",
		"Double Sharing":  "Double Sharing",
		"2 sharing":       "Double Sharing",
		"TRIPLE":          "Triple Sharing",
		"four_sharing":    "Four Sharing",
		"deluxe-ac-suite": "Deluxe Ac Suite",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, RoomTypeLabel(in), "RoomTypeLabel(%q)", in)
	}
}

func TestGenderLabel(t *testing.T) {
	tests := map[string]string{
		"male":      "Male",
		"M":         "Male",
		"female":    "Female",
		"f":         "Female",
		"co-living": "Co-living",
		"coed":      "Co-living",
		"any":       "any",
		"":          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, GenderLabel(in), "GenderLabel(%q)", in)
	}
}

func TestPhotoURL(t *testing.T) {
	const cdn = "https://res.cloudinary.com/demo/image/upload"
	tests := []struct {
		name      string
		slotValue string
		publicID  string
		want      string
	}{
		{"absolute url wins", "https://cdn.example/a.png", "partners/a", "https://cdn.example/a.png"},
		{"public id gets extension", "", "partners/room_1", cdn + "/partners/room_1.jpg"},
		{"public id keeps extension", "", "partners/room_1.webp", cdn + "/partners/room_1.webp"},
		{"nothing usable", "", "", ""},
		{"relative value without id", "blob:preview", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhotoURL(tt.slotValue, tt.publicID, cdn))
		})
	}
}

func TestPhotosWithPublicIDs(t *testing.T) {
	cdn := CDNBase("demo")
	raw := `{"roomPhoto":"https://x.example/room.jpg","exterior":"","bathroom_image":"partners/bath"}`
	ids := map[string]any{"room": "partners/room"}

	set, err := Photos(raw, ids, cdn)
	require.NoError(t, err)

	assert.Equal(t, model.PhotoRef{URL: "https://x.example/room.jpg", PublicID: "partners/room"}, set["room"])
	assert.Equal(t, model.PhotoRef{URL: cdn + "/partners/bath.jpg", PublicID: "partners/bath"}, set["bathroom"])
	assert.NotContains(t, set, "exterior")
}

func TestOffersShapes(t *testing.T) {
	got, err := Offers(`{"laundry":["10% off","Free pickup"],"food":["BOGO"]}`, model.CategoryLaundry)
	require.NoError(t, err)
	assert.Equal(t, []string{"10% off", "Free pickup"}, got)

	got, err = Offers(map[string]any{"food": []any{"BOGO"}}, model.CategoryLaundry)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Offers([]any{"A", map[string]any{"title": "B"}, 3.0}, model.CategoryStore)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestDocumentAccommodation(t *testing.T) {
	var logs bytes.Buffer
	d := &Decoder{
		CDNBase: CDNBase("demo"),
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	}
	doc := model.RemoteDocument{
		"id":              7.0,
		"owner_name":      "Asha Rao",
		"phone_number":    "9876543210",
		"property_name":   "Green Nest PG",
		"location":        "Koramangala",
		"rooms_available": 12.0,
		"gender":          "f",
		"amenities":       `{"furniture":{"Bed":true,"Sofa":false},"utilities":["WiFi"]}`,
		"room_pricing":    `[{"type":"single","price":9000,"security":5000}]`,
		"offers":          "{not json",
		"property_images": map[string]any{"room": "https://x.example/r.jpg"},
		"rules":           map[string]any{"no_outsiders": true, "fine_amount": 500.0, "savedRules": []any{"No smoking"}},
	}

	p := d.Document(doc, model.CategoryAccommodation)

	assert.Equal(t, "7", model.Deref(p.ID))
	assert.Equal(t, "Asha Rao", model.Deref(p.OwnerName))
	assert.Equal(t, "Green Nest PG", model.Deref(p.BusinessName))
	assert.Equal(t, "Koramangala", model.Deref(p.LocationArea))
	assert.Equal(t, "12", model.Deref(p.RoomsAvailable))
	assert.Equal(t, "Female", model.Deref(p.Gender))
	assert.Equal(t, []string{"Bed"}, p.Amenities["furniture"])
	assert.Equal(t, []model.PricedItem{{Name: "Single Sharing", Rent: 9000, Deposit: 5000}}, p.RoomTypes)
	assert.Equal(t, "https://x.example/r.jpg", p.Photos["room"].URL)
	require.NotNil(t, p.Rules)
	assert.True(t, p.Rules.NoOutsiders)
	assert.Equal(t, "500", p.Rules.FineAmount)
	assert.Equal(t, []string{"No smoking"}, p.Rules.Saved)

	// Malformed offers are logged and left absent.
	assert.Nil(t, p.Offers)
	assert.Contains(t, logs.String(), "field=offers")
}

func TestDocumentMalformedCollectionsStayAbsent(t *testing.T) {
	var logs bytes.Buffer
	d := &Decoder{Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	garbage := model.RemoteDocument{
		"amenities":       "{not json",
		"room_pricing":    "{not json",
		"offers":          "{not json",
		"property_images": "{not json",
		"rules":           "{not json",
	}
	p := d.Document(garbage, model.CategoryAccommodation)

	assert.Nil(t, p.Amenities)
	assert.Nil(t, p.RoomTypes)
	assert.Nil(t, p.Offers)
	assert.Nil(t, p.Photos)
	assert.Nil(t, p.Rules)
	for _, field := range []string{"amenities", "roomPricing", "offers", "photos", "rules"} {
		assert.Contains(t, logs.String(), "field="+field)
	}

	p = d.Document(model.RemoteDocument{"service_catalog": 42.0}, model.CategoryRepair)
	assert.Nil(t, p.Catalog)
}

func TestDocumentPartiallyRecoveredCollectionIsPresent(t *testing.T) {
	doc := model.RemoteDocument{
		"room_pricing": []any{
			map[string]any{"type": "single", "rent": 5000.0},
			true,
		},
	}
	p := (&Decoder{}).Document(doc, model.CategoryAccommodation)

	assert.Equal(t, []model.PricedItem{{Name: "Single Sharing", Rent: 5000}}, p.RoomTypes)
}

func TestDocumentPricingHeuristicOnlyWhenPrimaryAbsent(t *testing.T) {
	d := &Decoder{}
	fallback := []any{map[string]any{"type": "double", "rent": 7000.0}}

	withPrimary := model.RemoteDocument{"room_pricing": []any{}, "price_list": fallback}
	p := d.Document(withPrimary, model.CategoryAccommodation)
	assert.NotNil(t, p.RoomTypes)
	assert.Empty(t, p.RoomTypes, "primary key present: heuristic must not run")

	withoutPrimary := model.RemoteDocument{"price_list": fallback, "rooms_rate": 2.0}
	p = d.Document(withoutPrimary, model.CategoryAccommodation)
	assert.Equal(t, []model.PricedItem{{Name: "Double Sharing", Rent: 7000}}, p.RoomTypes)

	neither := model.RemoteDocument{"rooms_rate": 2.0}
	p = d.Document(neither, model.CategoryAccommodation)
	assert.Nil(t, p.RoomTypes)
}

func TestDocumentStoreCatalog(t *testing.T) {
	d := &Decoder{}
	doc := model.RemoteDocument{
		"store_name":      "Quick Wash",
		"service_type":    "laundry",
		"service_catalog": `{"laundry":[{"name":"Ironing","price":"15"}]}`,
		"offers":          map[string]any{"laundry": []any{"First wash free"}},
		"delivery_charge": 20.0,
	}

	p := d.Document(doc, "")

	require.NotNil(t, p.Category)
	assert.Equal(t, model.CategoryLaundry, *p.Category)
	assert.Equal(t, []model.PricedItem{{Name: "Ironing", Rent: 15}}, p.Catalog)
	assert.Equal(t, []string{"First wash free"}, p.Offers)
	assert.Equal(t, "20", model.Deref(p.DeliveryCharge))
	assert.Nil(t, p.RoomTypes)
}

func TestDocumentBlankScalarsAreAbsent(t *testing.T) {
	p := (&Decoder{}).Document(model.RemoteDocument{"business_name": "  ", "owner_name": nil}, model.CategoryFood)

	assert.Nil(t, p.BusinessName)
	assert.Nil(t, p.OwnerName)
}
