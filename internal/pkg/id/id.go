package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. Dispatch runs are identified by ULIDs so log
// lines and reports for a run sort lexicographically by start time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
