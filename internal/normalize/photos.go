package normalize

import (
	"path"
	"strconv"
	"strings"

	"partner-sync/internal/model"
)

// defaultAssetExt is appended to public ids that carry no extension.
const defaultAssetExt = "jpg"

// PhotoURL resolves a slot's display URL. An absolute URL is returned
// as-is; otherwise a public id is expanded against the CDN base. Returns ""
// when neither is usable.
func PhotoURL(slotValue, publicID, cdnBase string) string {
	if isAbsoluteURL(slotValue) {
		return slotValue
	}
	if publicID == "" || cdnBase == "" {
		return ""
	}
	id := strings.TrimPrefix(publicID, "/")
	if path.Ext(id) == "" {
		id += "." + defaultAssetExt
	}
	return strings.TrimSuffix(cdnBase, "/") + "/" + id
}

// CDNBase builds the delivery base URL for a Cloudinary cloud name.
// Returns "" for an empty name so PhotoURL degrades to null.
func CDNBase(cloudName string) string {
	if cloudName == "" {
		return ""
	}
	return "https://res.cloudinary.com/" + cloudName + "/image/upload"
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "//")
}

// slotSuffixes are stripped from remote slot keys ("roomPhoto", "exterior_image").
var slotSuffixes = []string{"_photos", "_photo", "_images", "_image", "photos", "photo", "images", "image"}

// SlotName canonicalizes a remote slot key.
func SlotName(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, suffix := range slotSuffixes {
		if strings.HasSuffix(k, suffix) && len(k) > len(suffix) {
			return strings.TrimSuffix(k, suffix)
		}
	}
	return k
}

// Photos decodes a slot map (or its JSON string) together with an optional
// slot → public id map. Slots that resolve to nothing are omitted.
func Photos(raw, publicIDs any, cdnBase string) (model.PhotoSet, error) {
	decoded, err := decodeEmbedded("photos", raw)
	if err != nil {
		return model.PhotoSet{}, err
	}
	ids := map[string]string{}
	if decodedIDs, idErr := decodeEmbedded("photoPublicIds", publicIDs); idErr == nil {
		if m, ok := decodedIDs.(map[string]any); ok {
			for k, v := range m {
				ids[SlotName(k)] = scalarString(v)
			}
		}
	}

	set := model.PhotoSet{}
	switch v := decoded.(type) {
	case nil:
	case map[string]any:
		for _, key := range sortedKeys(v) {
			slot := SlotName(key)
			ref := photoRef(v[key], ids[slot], cdnBase)
			if !ref.Empty() {
				set[slot] = ref
			}
		}
	case []any:
		// Positional arrays carry no slot names; keep them under index slots
		// so nothing is silently lost.
		for i, entry := range v {
			ref := photoRef(entry, "", cdnBase)
			if !ref.Empty() {
				set["photo_"+strconv.Itoa(i)] = ref
			}
		}
	default:
		return set, shapeErr("photos", decoded, nil)
	}
	return set, nil
}

func photoRef(v any, publicID, cdnBase string) model.PhotoRef {
	var value string
	switch x := v.(type) {
	case string:
		value = strings.TrimSpace(x)
	case map[string]any:
		if u, ok := lookup(x, "url", "secure_url", "secureUrl"); ok {
			value = scalarString(u)
		}
		if id, ok := lookup(x, "publicId", "public_id"); ok && publicID == "" {
			publicID = scalarString(id)
		}
	}
	if value != "" && !isAbsoluteURL(value) && publicID == "" {
		// A bare value that is not a URL is the public id itself.
		publicID = value
	}
	return model.PhotoRef{
		URL:      PhotoURL(value, publicID, cdnBase),
		PublicID: publicID,
	}
}
