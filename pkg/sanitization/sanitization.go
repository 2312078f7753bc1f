// Package sanitization keeps secrets and ownership-challenge material out of
// log output and notifications.
package sanitization

import (
	"fmt"
	"strings"
)

const redactedValue = "[REDACTED]"

const (
	emptyMaskedValue = "(empty)"
	maskedValue      = "***masked***"
)

// SanitizationType defines how to sanitize a field.
type SanitizationType int

const (
	FullyRedact SanitizationType = iota
	PartialMask
)

// SensitiveFields defines fields that require explicit sanitization
// behavior, keyed by lowercased field name. Verification challenges are
// partially masked so operators can still correlate them with the registrar
// console; credentials are removed outright.
var SensitiveFields = map[string]SanitizationType{
	"password":      FullyRedact,
	"secret":        FullyRedact,
	"secret_key":    FullyRedact,
	"private_key":   FullyRedact,
	"api_token":     FullyRedact,
	"authorization": FullyRedact,
	"session_token": FullyRedact,

	"access_key_id":      PartialMask,
	"verification_token": PartialMask,
	"txt_value":          PartialMask,
	"challenge":          PartialMask,
	"certificate_arn":    PartialMask,
}

// SanitizeLogString removes control characters that could enable log
// forging.
func SanitizeLogString(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

// SanitizeFieldValue sanitizes a field value based on its key name.
// Deterministic and safe-by-default for known sensitive keys.
func SanitizeFieldValue(key string, value any) any {
	keyLower := strings.ToLower(strings.TrimSpace(key))
	if typ, ok := SensitiveFields[keyLower]; ok {
		switch typ {
		case PartialMask:
			return maskValue(value)
		default:
			return redactedValue
		}
	}
	if s, ok := value.(string); ok {
		return SanitizeLogString(s)
	}
	return value
}

// MaskFirstLast keeps the given prefix and suffix of a string and masks the
// middle.
func MaskFirstLast(value string, prefixLen, suffixLen int) string {
	if value == "" {
		return emptyMaskedValue
	}
	if len(value) <= prefixLen+suffixLen {
		return maskedValue
	}
	return value[:prefixLen] + "..." + value[len(value)-suffixLen:]
}

func maskValue(value any) string {
	switch v := value.(type) {
	case string:
		return MaskFirstLast(SanitizeLogString(v), 4, 4)
	case nil:
		return emptyMaskedValue
	default:
		return MaskFirstLast(SanitizeLogString(fmt.Sprint(v)), 4, 4)
	}
}
