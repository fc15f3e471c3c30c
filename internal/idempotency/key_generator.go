package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateKey derives the storage key for a keyed submit. The session ID
// and route are folded in so a client key replayed against another session
// or another step cannot collide with an earlier cached response.
func GenerateKey(sessionID, route, clientKey string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%s:%s", sessionID, route, clientKey)

	return hex.EncodeToString(h.Sum(nil))
}
