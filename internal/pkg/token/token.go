// Package token mints the opaque per-record secrets embedded in validation
// and unsubscribe links.
package token

import "math/rand/v2"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 32
)

// New returns a fresh 32-character token over A-Z and 0-9. The 36^32 space
// makes tokens unguessable as capability tokens; they are not cryptographic
// secrets, and uniqueness is enforced by the store's conditional write
// rather than by the generator.
func New() string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
