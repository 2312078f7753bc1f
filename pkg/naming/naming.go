package naming

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitizePart maps each run of separator characters to a single dash.
// Dashes already in the input pass through untouched: punycode names carry
// meaningful double dashes ("xn--"), and collapsing them would alias
// distinct apexes to one identifier.
func sanitizePart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = nonAlnum.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// ResourceID returns a deterministic, DNS-safe identifier for an FQDN:
// "www.example.com" -> "www-example-com".
//
// Resource names downstream are derived from these, so the mapping must stay
// stable across runs; changing it renames (and therefore recreates) cloud
// resources.
func ResourceID(fqdn string) string {
	return sanitizePart(fqdn)
}

// ConstructID returns the PascalCase construct identifier for an FQDN:
// "www.example.com" -> "WwwExampleCom".
func ConstructID(fqdn string) string {
	parts := strings.Split(sanitizePart(fqdn), "-")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// AlarmName returns a deterministic alarm name: <resource-id>-<suffix>.
func AlarmName(fqdn, suffix string) string {
	id := sanitizePart(fqdn)
	suffix = sanitizePart(suffix)
	if suffix == "" {
		return id
	}
	if id == "" {
		return suffix
	}
	return id + "-" + suffix
}
