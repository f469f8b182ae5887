// Package partnerhdr parses and writes the Partner-Session header that
// callers of the gateway use to carry identity and client version.
//
// The header is an RFC 8941 Dictionary:
//
//	Partner-Session: email="owner@example.com", category=accommodation, client="partnerctl/1.4.0"
package partnerhdr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"

	"partner-sync/internal/model"
)

// HeaderName is the request header carrying the session dictionary.
const HeaderName = "Partner-Session"

// Session is the parsed header.
type Session struct {
	Email    string
	Category model.Category
	Client   string // product/version, e.g. partnerctl/1.4.0
}

// Parse decodes a Partner-Session header. Unknown keys are ignored.
// An email is required; category and client are optional.
func Parse(header string) (*Session, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, errors.New("empty Partner-Session header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return nil, fmt.Errorf("invalid Partner-Session header: %w", err)
	}

	s := &Session{}
	if s.Email, err = stringMember(dict, "email"); err != nil {
		return nil, err
	}
	if s.Email == "" {
		return nil, errors.New("email key not found in Partner-Session header")
	}

	cat, err := stringMember(dict, "category")
	if err != nil {
		return nil, err
	}
	if cat != "" {
		c, ok := model.ParseCategory(cat)
		if !ok {
			return nil, fmt.Errorf("unknown category %q in Partner-Session header", cat)
		}
		s.Category = c
	}

	if s.Client, err = stringMember(dict, "client"); err != nil {
		return nil, err
	}
	return s, nil
}

// stringMember reads key as a string or token item. A missing key is "".
func stringMember(dict *httpsfv.Dictionary, key string) (string, error) {
	member, ok := dict.Get(key)
	if !ok {
		return "", nil
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", fmt.Errorf("%s value must be an item", key)
	}
	switch v := item.Value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case httpsfv.Token:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s value must be a string or token", key)
	}
}

// Format encodes s as a header value.
func Format(s Session) (string, error) {
	dict := httpsfv.NewDictionary()
	dict.Add("email", httpsfv.NewItem(s.Email))
	if s.Category != "" {
		dict.Add("category", httpsfv.NewItem(httpsfv.Token(s.Category)))
	}
	if s.Client != "" {
		dict.Add("client", httpsfv.NewItem(s.Client))
	}
	return httpsfv.Marshal(dict)
}
