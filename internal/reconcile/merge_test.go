package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-sync/internal/model"
)

func accommodation() *model.Category {
	c := model.CategoryAccommodation
	return &c
}

func TestMergePrecedence(t *testing.T) {
	prev := model.NewProfile(model.CategoryAccommodation)
	prev.BusinessName = "B"
	defaults := model.PartialProfile{BusinessName: model.String("C")}

	remote := &model.PartialProfile{BusinessName: model.String("A")}
	assert.Equal(t, "A", Merge(prev, remote, defaults).BusinessName)

	remote = &model.PartialProfile{}
	assert.Equal(t, "B", Merge(prev, remote, defaults).BusinessName)

	prev.BusinessName = ""
	assert.Equal(t, "C", Merge(prev, remote, defaults).BusinessName)

	assert.Equal(t, "", Merge(prev, nil, model.PartialProfile{}).BusinessName)
}

func TestMergeIdempotent(t *testing.T) {
	prev := model.NewProfile(model.CategoryAccommodation)
	prev.OwnerName = "Asha"
	prev.Offers = []string{"local offer"}
	prev.Rules.Draft = "typing"

	remote := &model.PartialProfile{
		Category:     accommodation(),
		BusinessName: model.String("Green PG"),
		RoomTypes:    []model.PricedItem{{Name: "Single Sharing", Rent: 5000}},
		Amenities:    model.AmenitySet{"utilities": {"WiFi"}},
		Photos:       model.PhotoSet{"room": {URL: "https://cdn/room.jpg", PublicID: "room"}},
		Rules:        &model.RuleSet{NoOutsiders: true, Saved: []string{"No smoking"}},
	}
	defaults := model.PartialProfile{Email: model.String("a@b.com")}

	once := Merge(prev, remote, defaults)
	twice := Merge(once, remote, defaults)

	assert.Equal(t, once, twice)
	assert.Equal(t, "typing", twice.Rules.Draft)
	assert.Equal(t, []string{"local offer"}, twice.Offers)
	assert.Equal(t, "a@b.com", twice.Email)
}

func TestMergeRetainsLocalPhotoPreviews(t *testing.T) {
	preview := &model.LocalFile{FileName: "room.png", Data: []byte{1}}
	prev := model.NewProfile(model.CategoryAccommodation)
	prev.Photos = model.PhotoSet{
		"room":     {Local: preview},
		"bathroom": {URL: "https://cdn/old-bath.jpg"},
	}

	// No photos key: the remote name wins, previews stay.
	got := Merge(prev, &model.PartialProfile{BusinessName: model.String("A")}, model.PartialProfile{})
	assert.Equal(t, "A", got.BusinessName)
	assert.Same(t, preview, got.Photos["room"].Local)
	assert.Equal(t, "https://cdn/old-bath.jpg", got.Photos["bathroom"].URL)

	// Remote room slot: persisted URL is taken, preview still pending.
	remote := &model.PartialProfile{Photos: model.PhotoSet{"room": {URL: "https://cdn/room.jpg", PublicID: "room1"}}}
	got = Merge(prev, remote, model.PartialProfile{})
	assert.Equal(t, "https://cdn/room.jpg", got.Photos["room"].URL)
	assert.True(t, got.Photos["room"].Pending())
	assert.Equal(t, "https://cdn/old-bath.jpg", got.Photos["bathroom"].URL)
}

func TestMergeDoesNotAlias(t *testing.T) {
	remote := &model.PartialProfile{
		Offers:    []string{"A"},
		RoomTypes: []model.PricedItem{{Name: "Single Sharing", Rent: 5000}},
		Amenities: model.AmenitySet{"utilities": {"WiFi"}},
	}
	got := Merge(model.NewProfile(model.CategoryAccommodation), remote, model.PartialProfile{})

	got.Offers[0] = "changed"
	got.RoomTypes[0].Rent = 1
	got.Amenities["utilities"][0] = "changed"

	assert.Equal(t, "A", remote.Offers[0])
	assert.Equal(t, 5000.0, remote.RoomTypes[0].Rent)
	assert.Equal(t, "WiFi", remote.Amenities["utilities"][0])
}

func TestMergeCompletesAmenities(t *testing.T) {
	got := Merge(model.BusinessProfile{}, nil, model.PartialProfile{})
	for _, c := range model.AmenityCategories() {
		require.Contains(t, got.Amenities, c)
		assert.NotNil(t, got.Amenities[c])
	}
	assert.NotNil(t, got.Offers)
	assert.NotNil(t, got.RoomTypes)
	assert.NotNil(t, got.Photos)
}

func TestMergeEmptyRemoteListIsPresent(t *testing.T) {
	prev := model.NewProfile(model.CategoryFood)
	prev.Offers = []string{"stale"}

	got := Merge(prev, &model.PartialProfile{Offers: []string{}}, model.PartialProfile{})
	assert.Empty(t, got.Offers)
}

func TestMergeCategoryPrecedence(t *testing.T) {
	food := model.CategoryFood
	got := Merge(model.BusinessProfile{}, nil, model.PartialProfile{Category: &food})
	assert.Equal(t, model.CategoryFood, got.Category)

	got = Merge(model.NewProfile(model.CategoryLaundry), &model.PartialProfile{Category: accommodation()}, model.PartialProfile{Category: &food})
	assert.Equal(t, model.CategoryAccommodation, got.Category)
}
