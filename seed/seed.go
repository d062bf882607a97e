// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package seed implements versioned, shareable seed strings: short
// human-typeable tokens that deterministically encode a random value plus a
// set of option choices, and decode back into exactly the same data.
package seed

import (
	"bytes"
	"encoding/base32"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/seedkit/seedkit/seed/bitrand"
)

const base32BlockLen = 8

var (
	// ErrMalformedSeed is wrapped by decode errors caused by input that
	// isn't a seed at all, as opposed to a seed of an unknown version.
	ErrMalformedSeed = errors.New("malformed seed string")

	// ErrUnknownOption is returned when a supplied or requested option ID
	// isn't part of the seed's format.
	ErrUnknownOption = errors.New("option not in seed format")

	errUnexpectedType   = errors.New("option value has unexpected type")
	errForeignFormat    = errors.New("format not registered")
	errConflictingForms = errors.New("both format and version specified")

	versionMask = big.NewInt(1<<versionWidth - 1)
)

// Seed is an immutable decoded or generated seed. Two seeds are equal iff
// their raw byte buffers are equal; the rendered string's casing and
// decoration never participate in identity.
type Seed struct {
	raw    []byte
	format *Format
	values map[string]any
	str    string
}

// GenerateOption configures a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	format  *Format
	version *uint8
	random  *big.Int
	values  map[string]any
}

// WithFormat encodes with the given format, which must be registered.
func WithFormat(format *Format) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.format = format
	}
}

// WithVersion encodes with the registered format for [version].
func WithVersion(version uint8) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.version = &version
	}
}

// WithRandom overrides the random segment. The value is truncated to the
// format's random width.
func WithRandom(random *big.Int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.random = random
	}
}

// WithValue sets the value encoded for the option with the given ID.
func WithValue(id string, value any) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.values[id] = value
	}
}

// WithValues sets the values encoded for all options keyed in [values].
func WithValues(values map[string]any) GenerateOption {
	return func(cfg *generateConfig) {
		for id, value := range values {
			cfg.values[id] = value
		}
	}
}

// Generate encodes a new seed. Without options it uses the registry's
// default format, that format's option defaults, and a fresh random
// segment. Any supplied value whose option isn't part of the resolved
// format is rejected.
func (r *Registry) Generate(opts ...GenerateOption) (*Seed, error) {
	cfg := generateConfig{values: make(map[string]any)}
	for _, opt := range opts {
		opt(&cfg)
	}

	format, err := r.resolveFormat(&cfg)
	if err != nil {
		return nil, err
	}

	var bits *big.Int
	if cfg.random != nil {
		// Fixed truncates to the random width; overly long overrides lose
		// their high bits rather than corrupting the option fields.
		bits, err = bitrand.Fixed(cfg.random).Draw(format.randomWidth)
	} else {
		bits, err = r.random.Draw(format.randomWidth)
	}
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(format.values))
	for _, option := range format.values {
		value, ok := cfg.values[option.ID()]
		if !ok {
			value = option.Default()
		}

		optionBits, err := option.ValueToBits(value)
		if err != nil {
			return nil, err
		}

		values[option.ID()] = value
		bits.Lsh(bits, uint(option.Width()))
		bits.Or(bits, new(big.Int).SetUint64(optionBits))
	}

	for id := range cfg.values {
		if _, ok := values[id]; !ok {
			return nil, fmt.Errorf("%w: %q isn't part of %s", ErrUnknownOption, id, format)
		}
	}

	bits.Lsh(bits, versionWidth)
	bits.Or(bits, big.NewInt(int64(format.version)))

	raw := make([]byte, format.byteCount)
	bits.FillBytes(raw)

	return &Seed{
		raw:    raw,
		format: format,
		values: values,
		str:    render(format, raw),
	}, nil
}

func (r *Registry) resolveFormat(cfg *generateConfig) (*Format, error) {
	switch {
	case cfg.format != nil && cfg.version != nil:
		return nil, errConflictingForms
	case cfg.format != nil:
		registered, err := r.Format(cfg.format.version)
		if err != nil {
			return nil, err
		}
		if registered != cfg.format {
			return nil, fmt.Errorf("%w: %s", errForeignFormat, cfg.format)
		}
		return cfg.format, nil
	case cfg.version != nil:
		return r.Format(*cfg.version)
	default:
		return r.DefaultFormat()
	}
}

// Parse decodes a seed string. Non-alphanumeric characters are purely
// decorative and are ignored, as is casing, so any rendering of the same
// underlying bytes parses to an equal seed.
func (r *Registry) Parse(s string) (*Seed, error) {
	var stripped strings.Builder
	for _, char := range s {
		if isAlphanumeric(char) {
			stripped.WriteRune(unicode.ToUpper(char))
		}
	}

	encoded := stripped.String()
	if overhang := len(encoded) % base32BlockLen; overhang != 0 {
		encoded += strings.Repeat("=", base32BlockLen-overhang)
	}

	raw, err := base32.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSeed, err)
	}

	bits := new(big.Int).SetBytes(raw)
	version := uint8(new(big.Int).And(bits, versionMask).Uint64())
	bits.Rsh(bits, versionWidth)

	format, err := r.Format(version)
	if err != nil {
		return nil, err
	}

	if len(raw) != format.byteCount {
		return nil, fmt.Errorf(
			"%w: %s encodes %d bytes, got %d",
			ErrMalformedSeed, format, format.byteCount, len(raw),
		)
	}

	// Options come back out in reverse declaration order, mirroring the
	// shifts performed while encoding. Whatever remains above them is the
	// random segment, retained only as part of the raw bytes.
	values := make(map[string]any, len(format.values))
	for i := len(format.values) - 1; i >= 0; i-- {
		option := format.values[i]
		width := uint(option.Width())

		mask := new(big.Int).Lsh(big.NewInt(1), width)
		mask.Sub(mask, big.NewInt(1))

		value, err := option.BitsToValue(mask.And(bits, mask).Uint64())
		if err != nil {
			return nil, err
		}

		values[option.ID()] = value
		bits.Rsh(bits, width)
	}

	return &Seed{
		raw:    raw,
		format: format,
		values: values,
		str:    render(format, raw),
	}, nil
}

// render substitutes the base32 digits of [raw] into the format's layout
// template. The format's digit count validation guarantees the unpadded
// base32 rendering has exactly as many digits as the layout has
// placeholders.
func render(format *Format, raw []byte) string {
	digits := strings.ToLower(strings.TrimRight(base32.StdEncoding.EncodeToString(raw), "="))

	var rendered strings.Builder
	rendered.Grow(len(format.layout))
	index := 0
	for _, char := range format.layout {
		if strings.ContainsRune(digitPlaceholders, char) {
			rendered.WriteByte(digits[index])
			index++
		} else {
			rendered.WriteRune(char)
		}
	}
	return rendered.String()
}

// Bytes returns a copy of the seed's raw byte buffer. The buffer is suitable
// for keying randomness algorithms, as it fully determines the seed.
func (s *Seed) Bytes() []byte {
	raw := make([]byte, len(s.raw))
	copy(raw, s.raw)
	return raw
}

// Format returns the format the seed was encoded with.
func (s *Seed) Format() *Format {
	return s.format
}

// String returns the canonical rendering of the seed, regardless of how the
// seed was originally written when parsed.
func (s *Seed) String() string {
	return s.str
}

// Equal returns whether both seeds hold the same raw bytes.
func (s *Seed) Equal(other *Seed) bool {
	return other != nil && bytes.Equal(s.raw, other.raw)
}

// Values returns a copy of the decoded option values keyed by option ID.
func (s *Seed) Values() map[string]any {
	values := make(map[string]any, len(s.values))
	for id, value := range s.values {
		values[id] = value
	}
	return values
}

// Value returns the decoded value of the option with the given ID.
func (s *Seed) Value(id string) (any, error) {
	value, ok := s.values[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q isn't part of %s", ErrUnknownOption, id, s.format)
	}
	return value, nil
}

// Bool returns the decoded value of a Bool option.
func (s *Seed) Bool(id string) (bool, error) {
	value, err := s.Value(id)
	if err != nil {
		return false, err
	}
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q holds %T", errUnexpectedType, id, value)
	}
	return v, nil
}

// Int returns the decoded value of a Range option.
func (s *Seed) Int(id string) (int64, error) {
	value, err := s.Value(id)
	if err != nil {
		return 0, err
	}
	v, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: %q holds %T", errUnexpectedType, id, value)
	}
	return v, nil
}

// Choice returns the decoded value of a Choice option.
func (s *Seed) Choice(id string) (string, error) {
	value, err := s.Value(id)
	if err != nil {
		return "", err
	}
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %T", errUnexpectedType, id, value)
	}
	return v, nil
}
