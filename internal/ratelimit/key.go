package ratelimit

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// CounterKey derives the opaque counter key for a caller identity and
// endpoint class. Hashing keeps raw identities (IPs, emails) out of the
// counter store and gives every (identity, class) pair its own window.
func CounterKey(identity, class string) string {
	sum := blake2b.Sum256([]byte(class + "\x00" + identity))
	return hex.EncodeToString(sum[:16])
}
