package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SHA256JSON hashes any JSON-serializable value after normalising it to
// a canonical JSON form: object keys sorted, compact separators. The
// result is stable under key reordering of the input mapping, which makes
// it usable as a cache key.
func SHA256JSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}

	// Round-trip through a generic value so map keys are re-emitted in
	// sorted order regardless of the input's field ordering.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("normalise value: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal canonical value: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// InputHash derives the classifier cache key for a form submission: the
// first 24 hex characters of SHA-256 over "name\noverview" with both
// parts trimmed.
func InputHash(activityName, overview string) string {
	payload := strings.TrimSpace(activityName) + "\n" + strings.TrimSpace(overview)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:24]
}
