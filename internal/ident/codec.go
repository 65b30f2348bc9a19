package ident

import (
	"errors"
	"strings"
)

// Codec errors
var (
	ErrInvalidEncoding = errors.New("invalid base-62 encoding")
	ErrInvalidFormat   = errors.New("invalid identifier format")
)

// alphabet is the base-62 digit set, most significant digit first when encoded.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(alphabet))

// Encode converts a non-negative integer to its compact base-62 form.
// Encode(0) returns "0"; there is no sign and no padding.
func Encode(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [11]byte // 62^11 > MaxUint64
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode is the inverse of Encode. It returns ErrInvalidEncoding if s is
// empty or contains a character outside the base-62 alphabet.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidEncoding
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(alphabet, s[i])
		if d < 0 {
			return 0, ErrInvalidEncoding
		}
		n = n*base + uint64(d)
	}
	return n, nil
}
