package partnerhdr

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ClientVersion extracts the semver from a product/version client string.
// Returns "" when there is none.
//
// Examples:
//   - partnerctl/1.4.0 → v1.4.0
//   - partnerctl/v2.0.0-rc.1 → v2.0.0-rc.1
//   - curl → ""
func ClientVersion(client string) string {
	_, version, ok := strings.Cut(client, "/")
	if !ok {
		return ""
	}
	v := normalizeVersion(version)
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// CheckVersion rejects clients older than minimum. Clients that do not
// announce a parseable version pass; the gate only blocks known-old builds.
func CheckVersion(client, minimum string) error {
	if minimum == "" {
		return nil
	}
	v := ClientVersion(client)
	if v == "" {
		return nil
	}
	if semver.Compare(v, normalizeVersion(minimum)) < 0 {
		return &VersionError{Client: client, Minimum: minimum}
	}
	return nil
}

// VersionError is returned when a client build is below the minimum.
type VersionError struct {
	Client  string
	Minimum string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("client %s is older than the minimum supported %s", e.Client, e.Minimum)
}

// normalizeVersion adds "v" prefix if needed for semver parsing.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
