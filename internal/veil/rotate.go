package veil

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// Rotator derives a replacement address from a matched address and the
// secret of the current rotation window. Implementations must be
// deterministic for a given (address, salt) pair and must map an empty salt
// to the zero address without touching any hash primitive.
//
// The two implementations below produce incompatible pseudonym spaces and
// must never be mixed within one deployment; pick one at startup and keep it.
type Rotator interface {
	Rotate(addr Addr, salt []byte) (Addr, error)
}

// NewRotator returns the rotator for the named scheme, "hkdf" or "legacy".
func NewRotator(scheme string) (Rotator, error) {
	switch scheme {
	case "hkdf":
		return HKDFRotator{}, nil
	case "legacy":
		return LegacyRotator{}, nil
	default:
		return nil, fmt.Errorf("unknown rotation scheme %q", scheme)
	}
}

// HKDFRotator is the canonical scheme: HKDF-SHA256 with the window salt as
// the extraction salt and the textual dotted-quad as input key material.
// Eight bytes of output keying material are folded to four by XORing byte i
// with byte i+4.
type HKDFRotator struct{}

func (HKDFRotator) Rotate(addr Addr, salt []byte) (Addr, error) {
	if len(salt) == 0 {
		return Addr{}, nil
	}
	kdf := hkdf.New(sha256.New, []byte(addr.String()), salt, nil)
	var okm [8]byte
	if _, err := io.ReadFull(kdf, okm[:]); err != nil {
		return Addr{}, errors.Wrap(err, "hkdf expand")
	}
	var out Addr
	for i := range out {
		out[i] = okm[i] ^ okm[i+4]
	}
	return out, nil
}

// LegacyRotator is the first-generation scheme: SHA-256 over addr||salt,
// digest split into four 8-byte chunks, each chunk's bytes summed mod 256.
// Kept only for deployments that must stay consistent with pseudonyms
// produced by earlier releases; callers should supply at least 32 bytes of
// salt with this scheme.
type LegacyRotator struct{}

func (LegacyRotator) Rotate(addr Addr, salt []byte) (Addr, error) {
	if len(salt) == 0 {
		return Addr{}, nil
	}
	h := sha256.New()
	h.Write([]byte(addr.String()))
	h.Write(salt)
	sum := h.Sum(nil)

	var out Addr
	for i := range out {
		var acc byte
		for _, b := range sum[i*8 : (i+1)*8] {
			acc += b
		}
		out[i] = acc
	}
	return out, nil
}
