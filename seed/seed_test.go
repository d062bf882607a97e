// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seed_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seedkit/seedkit/seed"
	"github.com/seedkit/seedkit/seed/options"
	"github.com/seedkit/seedkit/seed/seedtest"
)

func TestSuite(t *testing.T) {
	seedtest.RunAll(t, func(tb testing.TB) *seed.Registry {
		return seedtest.NewRegistry(tb)
	})
}

// A format with no options dedicates everything past the version field to
// randomness: 8 digits hold 5 bytes, the version takes the low 5 bits of the
// big-endian integer, and a zero random segment leaves every other bit
// clear.
func TestGenerateNoOptionsZeroRandom(t *testing.T) {
	require := require.New(t)

	r := seed.NewRegistry()
	format, err := seed.NewFormat(3, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(format))

	generated, err := r.Generate(seed.WithRandom(new(big.Int)))
	require.NoError(err)
	require.Equal([]byte{0, 0, 0, 0, 3}, generated.Bytes())
	require.Equal("aaaaaaad", generated.String())

	parsed, err := r.Parse(generated.String())
	require.NoError(err)
	require.Equal(uint8(3), parsed.Format().Version())
	require.Empty(parsed.Values())
	require.True(generated.Equal(parsed))
}

// Bit-for-bit layout check with options: random | options in declaration
// order | version, most significant first.
func TestGenerateBitLayout(t *testing.T) {
	require := require.New(t)

	level, err := options.NewRange("level", 0, 10, 1, 0)
	require.NoError(err)

	r := seed.NewRegistry()
	format, err := seed.NewFormat(1, "XXXX", options.NewBool("hardcore", false), level)
	require.NoError(err)
	require.NoError(r.RegisterFormat(format))
	require.Equal(2, format.ByteCount())
	require.Equal(6, format.RandomWidth())

	// random=0b101, hardcore=true (1 bit), level=7 (4 bits), version=1:
	// 000101 1 0111 00001 = 0x16e1.
	generated, err := r.Generate(
		seed.WithRandom(big.NewInt(0b101)),
		seed.WithValue("hardcore", true),
		seed.WithValue("level", 7),
	)
	require.NoError(err)
	require.Equal([]byte{0x16, 0xe1}, generated.Bytes())

	parsed, err := r.Parse(generated.String())
	require.NoError(err)

	hardcore, err := parsed.Bool("hardcore")
	require.NoError(err)
	require.True(hardcore)

	levelValue, err := parsed.Int("level")
	require.NoError(err)
	require.Equal(int64(7), levelValue)
}

func TestGenerateRandomOverrideTruncated(t *testing.T) {
	require := require.New(t)

	r := seed.NewRegistry()
	format, err := seed.NewFormat(3, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(format))

	// 40 one-bits masked down to the 35-bit random width.
	wide := new(big.Int).Lsh(big.NewInt(1), 40)
	wide.Sub(wide, big.NewInt(1))

	generated, err := r.Generate(seed.WithRandom(wide))
	require.NoError(err)
	require.Equal([]byte{0xff, 0xff, 0xff, 0xff, 0xe3}, generated.Bytes())
}

func TestGenerateDefaultsFilledIn(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)
	generated, err := r.Generate(seed.WithVersion(2))
	require.NoError(err)
	require.Equal(map[string]any{
		"hardcore":   false,
		"level":      int64(25),
		"difficulty": "normal",
	}, generated.Values())
}

func TestGenerateUnknownOptionKey(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)
	_, err := r.Generate(seed.WithVersion(1), seed.WithValue("nope", true))
	require.ErrorIs(err, seed.ErrUnknownOption)
}

func TestGenerateValueOutsideDomain(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)
	_, err := r.Generate(seed.WithVersion(2), seed.WithValue("level", 99))
	require.ErrorIs(err, options.ErrInvalidValue)

	_, err = r.Generate(seed.WithVersion(2), seed.WithValue("difficulty", "nightmare"))
	require.ErrorIs(err, options.ErrInvalidValue)
}

func TestGenerateUnregisteredFormat(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)

	// Same version number as a registered format, different instance.
	other, err := seed.NewFormat(1, "XXXX-XXXX")
	require.NoError(err)

	_, err = r.Generate(seed.WithFormat(other))
	require.Error(err)

	registered, err := r.Format(1)
	require.NoError(err)
	_, err = r.Generate(seed.WithFormat(registered))
	require.NoError(err)
}

func TestParseMalformed(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)

	// A single data character can't base32-decode.
	_, err := r.Parse("a")
	require.ErrorIs(err, seed.ErrMalformedSeed)

	// Well-formed base32 of the wrong length for its embedded version.
	valid, err := r.Generate(seed.WithVersion(1))
	require.NoError(err)
	_, err = r.Parse(valid.String() + valid.String())
	require.ErrorIs(err, seed.ErrMalformedSeed)
}

// A choice list that shrank between releases leaves old seeds carrying an
// index past the end of the list. The whole string is rejected as invalid,
// distinguishable from both malformed input and unknown versions.
func TestParseShrunkChoiceList(t *testing.T) {
	require := require.New(t)

	oldChoice, err := options.NewChoice("mode", "a", "a", "b", "c", "d")
	require.NoError(err)
	oldRegistry := seed.NewRegistry()
	oldFormat, err := seed.NewFormat(1, "XX", oldChoice)
	require.NoError(err)
	require.NoError(oldRegistry.RegisterFormat(oldFormat))

	generated, err := oldRegistry.Generate(seed.WithValue("mode", "d"))
	require.NoError(err)

	newChoice, err := options.NewChoice("mode", "a", "a", "b", "c")
	require.NoError(err)
	newRegistry := seed.NewRegistry()
	newFormat, err := seed.NewFormat(1, "XX", newChoice)
	require.NoError(err)
	require.NoError(newRegistry.RegisterFormat(newFormat))

	_, err = newRegistry.Parse(generated.String())
	require.ErrorIs(err, options.ErrInvalidEncodedValue)
}

func TestSeedTypedGetters(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)
	generated, err := r.Generate(seed.WithVersion(2))
	require.NoError(err)

	_, err = generated.Bool("level")
	require.Error(err)

	_, err = generated.Int("missing")
	require.ErrorIs(err, seed.ErrUnknownOption)

	difficulty, err := generated.Choice("difficulty")
	require.NoError(err)
	require.Equal("normal", difficulty)
}

func TestSeedEquality(t *testing.T) {
	require := require.New(t)

	r := seedtest.NewRegistry(t)

	a, err := r.Generate(seed.WithVersion(1), seed.WithRandom(big.NewInt(42)))
	require.NoError(err)
	b, err := r.Generate(seed.WithVersion(1), seed.WithRandom(big.NewInt(42)))
	require.NoError(err)
	c, err := r.Generate(seed.WithVersion(1), seed.WithRandom(big.NewInt(43)))
	require.NoError(err)

	require.True(a.Equal(b))
	require.False(a.Equal(c))
	require.False(a.Equal(nil))
}
