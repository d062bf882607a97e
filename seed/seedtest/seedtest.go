// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package seedtest provides a test suite exercising the codec laws every
// populated registry must satisfy, plus fixture formats shared by tests
// across the repository.
package seedtest

import (
	"math/big"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/seedkit/seedkit/seed"
	"github.com/seedkit/seedkit/seed/options"
)

// A NamedTest couples a test in the suite with a human-readable name.
type NamedTest struct {
	Name string
	Test func(t *testing.T, r *seed.Registry)
}

// Run runs the test against a fresh registry from [ctor].
func (tt *NamedTest) Run(t *testing.T, ctor func(tb testing.TB) *seed.Registry) {
	t.Run(tt.Name, func(t *testing.T) {
		tt.Test(t, ctor(t))
	})
}

// RunAll runs all [Tests], constructing a new registry for each.
func RunAll(t *testing.T, ctor func(tb testing.TB) *seed.Registry) {
	for _, tt := range Tests {
		tt.Run(t, ctor)
	}
}

var Tests = []NamedTest{
	{"Round Trip Defaults", TestRoundTripDefaults},
	{"Round Trip Zero Random", TestRoundTripZeroRandom},
	{"Canonicalization", TestCanonicalization},
	{"Unknown Version", TestUnknownVersion},
	{"Duplicate Version", TestDuplicateVersion},
}

// NewRegistry returns a registry populated with the fixture formats below:
// version 1 carries no options, version 2 carries one of each option
// variant with a grouping node in the tree.
func NewRegistry(tb testing.TB, opts ...seed.RegistryOption) *seed.Registry {
	require := require.New(tb)

	r := seed.NewRegistry(opts...)
	v1, err := seed.NewFormat(1, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v1))

	level, err := options.NewRange("level", 0, 50, 5, 25)
	require.NoError(err)
	difficulty, err := options.NewChoice("difficulty", "normal", "easy", "normal", "hard")
	require.NoError(err)
	v2, err := seed.NewFormat(2, "XXXXX-XXXXX-XXXXX",
		options.NewBool("hardcore", false),
		options.NewGroup("tuning", level, difficulty),
	)
	require.NoError(err)
	require.NoError(r.RegisterFormat(v2))

	return r
}

func TestRoundTripDefaults(t *testing.T, r *seed.Registry) {
	require := require.New(t)

	for _, version := range r.Versions() {
		generated, err := r.Generate(seed.WithVersion(version))
		require.NoError(err)

		parsed, err := r.Parse(generated.String())
		require.NoError(err)
		require.True(generated.Equal(parsed))
		require.Equal(generated.Bytes(), parsed.Bytes())
		require.Equal(generated.Values(), parsed.Values())
		require.Equal(generated.String(), parsed.String())
	}
}

func TestRoundTripZeroRandom(t *testing.T, r *seed.Registry) {
	require := require.New(t)

	for _, version := range r.Versions() {
		generated, err := r.Generate(
			seed.WithVersion(version),
			seed.WithRandom(new(big.Int)),
		)
		require.NoError(err)

		parsed, err := r.Parse(generated.String())
		require.NoError(err)
		require.True(generated.Equal(parsed))
	}
}

func TestCanonicalization(t *testing.T, r *seed.Registry) {
	require := require.New(t)

	for _, version := range r.Versions() {
		generated, err := r.Generate(seed.WithVersion(version))
		require.NoError(err)

		parsed, err := r.Parse(Mangle(generated.String()))
		require.NoError(err)
		require.True(generated.Equal(parsed))
		require.Equal(generated.String(), parsed.String())
	}
}

func TestUnknownVersion(t *testing.T, r *seed.Registry) {
	require := require.New(t)

	registered := make(map[uint8]struct{})
	for _, version := range r.Versions() {
		registered[version] = struct{}{}
	}
	missing := uint8(0)
	for version := uint8(0); version <= seed.VersionMax; version++ {
		if _, ok := registered[version]; !ok {
			missing = version
			break
		}
	}

	// A well-formed seed of the missing version must surface that exact
	// version, never a generic decode error.
	foreign := seed.NewRegistry()
	format, err := seed.NewFormat(missing, "XXXXXXXX")
	require.NoError(err)
	require.NoError(foreign.RegisterFormat(format))
	foreignSeed, err := foreign.Generate()
	require.NoError(err)

	_, err = r.Parse(foreignSeed.String())
	require.ErrorIs(err, seed.ErrUnknownVersion)

	var versionErr *seed.UnknownVersionError
	require.ErrorAs(err, &versionErr)
	require.Equal(missing, versionErr.Version)
}

func TestDuplicateVersion(t *testing.T, r *seed.Registry) {
	require := require.New(t)

	versions := r.Versions()
	require.NotEmpty(versions)

	format, err := seed.NewFormat(versions[0], "XXXXXXXX")
	require.NoError(err)
	require.Error(r.RegisterFormat(format))
}

// Mangle rewrites a rendered seed string without touching its data
// characters: casing is flipped to upper, decoration becomes '/', and
// whitespace is added at both ends. Parsing a mangled string must yield a
// seed equal to the original.
func Mangle(s string) string {
	var mangled strings.Builder
	mangled.WriteString("  ")
	for _, char := range s {
		if unicode.IsLetter(char) || unicode.IsDigit(char) {
			mangled.WriteRune(unicode.ToUpper(char))
		} else {
			mangled.WriteRune('/')
		}
	}
	mangled.WriteString("  ")
	return mangled.String()
}
