package errors

import (
	"strings"
	"unicode"
)

// ValidateSKU validates a product identifier for safety and correctness.
// SKUs become file names in the durable store and path segments in API
// routes, so the validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 128 characters
func ValidateSKU(sku string) error {
	if sku == "" {
		return New(ErrCodeInvalidSKU, "product SKU cannot be empty")
	}

	if len(sku) > 128 {
		return New(ErrCodeInvalidSKU, "product SKU too long (max 128 characters)")
	}

	for _, r := range sku {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSKU, "product SKU contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(sku, pattern) {
			return New(ErrCodeInvalidSKU, "product SKU contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
