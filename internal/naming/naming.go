// Package naming derives deterministic CloudFormation logical ids from
// construct tree paths.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashLen is the number of hex characters appended to disambiguate nested
// paths whose sanitized components collide.
const hashLen = 8

// maxHumanLen caps the human-readable part so logical ids stay within
// CloudFormation's 255-character limit.
const maxHumanLen = 240

// LogicalID returns a deterministic, collision-resistant identifier for a
// path. It is a pure function of the path: the same path always yields
// the same id, so repeated synthesis of unchanged input generates
// identical names. Top-level paths (a single component) keep their plain
// sanitized id; nested paths get a hash suffix derived from the full
// path, so "A/B" and "AB" cannot collide.
func LogicalID(path []string) string {
	var human strings.Builder
	for _, component := range path {
		human.WriteString(sanitize(component))
	}

	id := human.String()
	if len(id) > maxHumanLen {
		id = id[:maxHumanLen]
	}
	if len(path) <= 1 {
		return id
	}
	return id + pathHash(path)
}

// pathHash returns an uppercase hex digest fragment of the joined path.
func pathHash(path []string) string {
	sum := sha256.Sum256([]byte(strings.Join(path, "/")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:hashLen]
}

// sanitize strips everything that is not a CloudFormation-legal logical
// id character.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
