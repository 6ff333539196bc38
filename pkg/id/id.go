// Package id issues the journal's run ids: ULIDs whose text order is the
// order runs were recorded in.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   io.Reader
)

func init() {
	var seed int64
	if err := binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed); err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewAt returns a run id stamped with the time the run was recorded. Two
// runs recorded in the same millisecond still sort in call order.
func NewAt(recordedAt time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	runID, err := ulid.New(ulid.Timestamp(recordedAt.UTC()), entropy)
	if err != nil {
		// a recording time before 1970 or a wrapped monotonic counter
		panic(err)
	}
	return runID.String()
}

// Time returns the recording time carried by a run id, and an error when s
// is not a well-formed id.
func Time(s string) (time.Time, error) {
	runID, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(runID.Time()).UTC(), nil
}
