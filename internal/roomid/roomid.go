// Package roomid generates room identifiers and converts them to and from
// short shareable strings.
//
// A room id is a random positive integer. The short form is the same number
// written in base 48 over an alphabet with visually confusable characters
// removed (no i, j, l, o, u, v, 0 or 1), so short ids can be read aloud or
// transcribed without ambiguity. Encode and Decode are exact inverses of
// each other for every id in range.
package roomid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

const (
	lowerChars = "abcdefghkmnpqrstwxyz"
	upperChars = "ABCDEFGHKMNPQRSTWXYZ"
	digitChars = "23456789"

	alphabet = lowerChars + upperChars + digitChars
	base     = int64(len(alphabet))
)

var (
	ErrNegative    = errors.New("roomid: cannot encode negative id")
	ErrEmpty       = errors.New("roomid: empty short id")
	ErrInvalidChar = errors.New("roomid: invalid character in short id")
	ErrRange       = errors.New("roomid: short id out of range")
)

// Encode converts a non-negative room id to its short form. The result is
// never empty: zero encodes to the first alphabet character.
func Encode(n int64) (string, error) {
	if n < 0 {
		return "", ErrNegative
	}

	if n == 0 {
		return string(alphabet[0]), nil
	}

	var sb []byte
	for n > 0 {
		sb = append(sb, alphabet[n%base])
		n /= base
	}

	// digits were produced least significant first
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}

	return string(sb), nil
}

// Decode converts a short id back to the integer room id it encodes. It
// fails on an empty string, on any character outside the alphabet, and on
// strings encoding a value larger than math.MaxInt64.
func Decode(s string) (int64, error) {
	if s == "" {
		return 0, ErrEmpty
	}

	var n int64
	for _, c := range s {
		idx := strings.IndexRune(alphabet, c)
		if idx < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidChar, c)
		}

		if n > (math.MaxInt64-int64(idx))/base {
			return 0, ErrRange
		}
		n = n*base + int64(idx)
	}

	return n, nil
}

// New returns a room id drawn uniformly from [1, math.MaxInt64] using the
// platform's cryptographic randomness source. Ids are independent between
// calls; uniqueness is enforced by the room table's primary key, not here.
func New() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, fmt.Errorf("read random id: %w", err)
	}

	return n.Int64() + 1, nil
}
