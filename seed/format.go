// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seed

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/seedkit/seedkit/seed/options"
)

const (
	versionWidth = 5
	byteWidth    = 8
	digitWidth   = 5

	// VersionMax is the largest version number a format may use, bounded by
	// the 5-bit version field encoded into every seed.
	VersionMax = 1<<versionWidth - 1

	// digitPlaceholders are the layout template characters that mark data
	// digit slots. Every other alphanumeric character is rejected.
	digitPlaceholders = "Xx"
)

// ErrFormatDefinition is wrapped by every error returned from NewFormat.
// Formats are defined once and trusted forever after, so these errors should
// abort application startup rather than be handled per call.
var ErrFormatDefinition = errors.New("invalid seed format definition")

// digitModuloBlacklist contains the digit counts mod 8 that can't be packed
// into a whole number of bytes at 5 bits per digit. Allowing them would leave
// the rendered string and the underlying buffer disagreeing on length.
var digitModuloBlacklist = map[int]struct{}{
	1: {},
	3: {},
	6: {},
}

// Format is an immutable description of one seed encoding version: its
// layout template, its ordered options, and the byte and bit budget derived
// from them. All validation happens here, never at encode/decode time.
type Format struct {
	version uint8
	layout  string
	opts    []options.Option
	values  []options.ValueOption

	byteCount   int
	randomWidth int
}

// NewFormat validates a format definition and computes its encoding
// geometry.
//
// The layout template fixes the appearance of rendered seeds: each 'X' (or
// 'x') is replaced with one data digit worth 5 bits, any non-alphanumeric
// character is copied through as decoration, and any other alphanumeric
// character is rejected. The digits are consumed by the 5-bit version field,
// then the options in declaration order, and whatever remains becomes the
// format's randomness.
func NewFormat(version uint8, layout string, opts ...options.Option) (*Format, error) {
	if version > VersionMax {
		return nil, fmt.Errorf("%w: version %d exceeds maximum %d", ErrFormatDefinition, version, VersionMax)
	}

	values := options.Flatten(opts)

	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value.ID()]; ok {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrFormatDefinition, value.ID())
		}
		seen[value.ID()] = struct{}{}
	}

	minBits := versionWidth
	for _, value := range values {
		minBits += value.Width()
	}
	minBytes := (minBits + byteWidth - 1) / byteWidth
	minDigits := (minBytes*byteWidth + digitWidth - 1) / digitWidth

	digits := 0
	invalid := ""
	for _, char := range layout {
		switch {
		case strings.ContainsRune(digitPlaceholders, char):
			digits++
		case isAlphanumeric(char) && !strings.ContainsRune(invalid, char):
			invalid += string(char)
		}
	}

	if invalid != "" {
		return nil, fmt.Errorf("%w: invalid characters %q in layout %q", ErrFormatDefinition, invalid, layout)
	}

	if digits < minDigits {
		if _, ok := digitModuloBlacklist[minDigits%byteWidth]; ok {
			minDigits++
		}
		return nil, fmt.Errorf(
			"%w: %d digits can't store the declared options, at least %d are required",
			ErrFormatDefinition, digits, minDigits,
		)
	}

	if _, ok := digitModuloBlacklist[digits%byteWidth]; ok {
		return nil, fmt.Errorf(
			"%w: a digit count of %d can't be byte aligned, use %d or %d instead",
			ErrFormatDefinition, digits, digits-1, digits+1,
		)
	}

	byteCount := digits * digitWidth / byteWidth
	return &Format{
		version:     version,
		layout:      layout,
		opts:        opts,
		values:      values,
		byteCount:   byteCount,
		randomWidth: byteCount*byteWidth - minBits,
	}, nil
}

// Version returns the format's version number, encoded into the low 5 bits
// of every seed of this format.
func (f *Format) Version() uint8 {
	return f.version
}

// Layout returns the layout template the format renders seeds with.
func (f *Format) Layout() string {
	return f.layout
}

// Options returns the format's option tree in declaration order.
func (f *Format) Options() []options.Option {
	opts := make([]options.Option, len(f.opts))
	copy(opts, f.opts)
	return opts
}

// ValueOptions returns the flattened value options in encoding order.
func (f *Format) ValueOptions() []options.ValueOption {
	values := make([]options.ValueOption, len(f.values))
	copy(values, f.values)
	return values
}

// ByteCount returns the length of the raw byte buffer backing every seed of
// this format.
func (f *Format) ByteCount() int {
	return f.byteCount
}

// RandomWidth returns the number of bits dedicated to randomness.
func (f *Format) RandomWidth() int {
	return f.randomWidth
}

// VariantCount returns the number of distinct seeds this format can produce
// for a fixed option assignment, i.e. 2^RandomWidth(). Widths routinely
// exceed 62 bits, hence the big.Int.
func (f *Format) VariantCount() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(f.randomWidth))
}

func (f *Format) String() string {
	return fmt.Sprintf("seed format %d (%s)", f.version, f.layout)
}

// isAlphanumeric matches the character class treated as data on decode;
// everything else is decoration.
func isAlphanumeric(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsDigit(char)
}
