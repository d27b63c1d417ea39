package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Context is the authenticated visitor's identity, owned exclusively by the
// session entry it is cached under. It expires with the token cache's
// natural expiry; no extra TTL logic lives in this layer.
type Context struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	// Cached from the last access resolution. Replaced wholesale each time
	// the resolver runs; last write wins across concurrent tabs.
	AccessLevels  []int `json:"accessLevels"`
	ContractIDs   []int `json:"contractIds"`
	MembershipIDs []int `json:"membershipIds"`
	ServiceIDs    []int `json:"serviceIds"`

	SigningTime time.Time `json:"-"`
}

type Identity struct {
	ClientID  string            `json:"clientId"`
	FirstName string            `json:"firstName"`
	Profile   map[string]string `json:"profile"`
}

// HasAccessTo reports whether any cached access level ordinal is in the
// required set.
func (c *Context) HasAccessTo(required []int) bool {
	for _, level := range c.AccessLevels {
		for _, want := range required {
			if level == want {
				return true
			}
		}
	}
	return false
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeTextField strips tags and collapses whitespace. Every remote
// profile value goes through this before it is cached.
func SanitizeTextField(value string) string {
	value = tagPattern.ReplaceAllString(value, "")
	value = whitespacePattern.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// SanitizeProfile flattens a raw remote profile into sanitized strings.
// Nested values are stringified; the profile is display data, not an API.
func SanitizeProfile(raw map[string]interface{}) map[string]string {
	profile := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			profile[key] = SanitizeTextField(v)
		case float64:
			profile[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			profile[key] = fmt.Sprintf("%t", v)
		case nil:
			profile[key] = ""
		default:
			profile[key] = SanitizeTextField(fmt.Sprintf("%v", v))
		}
	}
	return profile
}
