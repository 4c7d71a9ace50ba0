package frame

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DigestSize is the length of a frame digest.
const DigestSize = 32

// Digest is a keyed BLAKE3 hash of an uncompressed payload.
type Digest [DigestSize]byte

// digestKey separates frame digests from other BLAKE3 uses of the same
// bytes. ASCII, zero padded to 32 bytes.
var digestKey = [32]byte{
	's', 'e', 'r', 'i', 'a', 'l', 'i', 's', 'm', '.', 'f', 'r', 'a', 'm', 'e', 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Sum computes the frame digest of payload.
func Sum(payload []byte) Digest {
	// NewKeyed only fails on a key of the wrong length.
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("frame: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
