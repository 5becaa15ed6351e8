package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DefaultIDLength truncates the hex digest to 40 bits. That is enough
// to keep collisions negligible at demo-scale throughput given the
// timestamp and sequence number inputs, but it is a uniqueness aid,
// not a guarantee: a long-running stream approaches the birthday bound
// for 40-bit identifiers. Raise the length if downstream treats the id
// as identity-critical.
const DefaultIDLength = 10

// TransactionID derives a short content-based identifier from the
// sampled fields of one event. The concatenation order is fixed, so
// the same inputs always map to the same id and any changed input
// produces a different digest.
func TransactionID(seq uint64, product string, price, commission float64, timestamp, source, status string, length int) string {
	if length <= 0 || length > sha256.Size*2 {
		length = DefaultIDLength
	}
	raw := fmt.Sprintf("%d %s %g %g %s %s %s", seq, product, price, commission, timestamp, source, status)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:length]
}
