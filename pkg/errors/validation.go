package errors

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// MinHits is the smallest chain length, in hits, that extraction accepts.
// Two hits are a single doublet and never form a chain.
const MinHits = 3

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects values that are not finite or below zero.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateMinHits checks the minimum chain length used for extraction.
func ValidateMinHits(n int) error {
	if n < MinHits {
		return New(ErrCodeInvalidInput, "min_hits must be at least %d, got %d", MinHits, n)
	}
	return nil
}

// ValidateRunID checks that id is a canonical UUID string.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	if u.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidInput, "run id %q is not in canonical form", id)
	}
	return nil
}

// ValidateURL validates a backend URL. The scheme must be one of schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL %q must use one of the schemes %s", rawURL, strings.Join(schemes, ", "))
}
