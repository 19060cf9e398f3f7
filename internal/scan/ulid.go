package scan

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Scan ids are ULIDs: 26-character Crockford Base32 with a millisecond
// timestamp prefix, so job listings sort chronologically.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

// NewID returns a fresh scan id, unique within this process even for ids
// minted in the same millisecond.
func NewID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps same-millisecond ids distinct.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford packs 128 bits into 26 base-32 characters, left-padding
// with two zero bits so the groups divide evenly.
func encodeCrockford(b [16]byte) string {
	var out [26]byte
	var acc uint
	bits := 2
	j := 0
	for i := 0; i < len(b); i++ {
		acc = acc<<8 | uint(b[i])
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[j] = crockford[(acc>>uint(bits))&31]
			j++
		}
	}
	return string(out[:])
}
