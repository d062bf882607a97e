// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seed

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seedkit/seedkit/seed/options"
)

func TestNewFormatVersionTooLarge(t *testing.T) {
	require := require.New(t)

	_, err := NewFormat(32, "XXXXXXXX")
	require.ErrorIs(err, ErrFormatDefinition)

	_, err = NewFormat(VersionMax, "XXXXXXXX")
	require.NoError(err)
}

func TestNewFormatInvalidCharacters(t *testing.T) {
	require := require.New(t)

	_, err := NewFormat(0, "XXab-Xa1X")
	require.ErrorIs(err, ErrFormatDefinition)
	// Offenders are listed once each, in first-seen order.
	require.Contains(err.Error(), `"ab1"`)
}

func TestNewFormatNoOptions(t *testing.T) {
	require := require.New(t)

	// 8 digits hold 5 bytes; the version consumes 5 bits and the remaining
	// 35 are randomness.
	format, err := NewFormat(3, "XXXXXXXX")
	require.NoError(err)
	require.Equal(uint8(3), format.Version())
	require.Equal(5, format.ByteCount())
	require.Equal(35, format.RandomWidth())
	require.Equal(new(big.Int).Lsh(big.NewInt(1), 35), format.VariantCount())
	require.Empty(format.ValueOptions())
}

func TestNewFormatGeometry(t *testing.T) {
	require := require.New(t)

	// A 1-bit bool and an 11-value range need 5+1+4 = 10 bits, so 2 bytes,
	// so 4 digits.
	level, err := options.NewRange("level", 0, 10, 1, 0)
	require.NoError(err)

	_, err = NewFormat(1, "XXX", options.NewBool("hardcore", false), level)
	require.ErrorIs(err, ErrFormatDefinition)
	require.Contains(err.Error(), "at least 4")

	format, err := NewFormat(1, "XXXX", options.NewBool("hardcore", false), level)
	require.NoError(err)
	require.Equal(2, format.ByteCount())
	require.Equal(6, format.RandomWidth())
}

func TestNewFormatDigitModulo(t *testing.T) {
	// Digit counts of 1, 3 or 6 mod 8 can't be packed into whole bytes;
	// their neighbors can.
	for digits := 2; digits <= 18; digits++ {
		layout := strings.Repeat("X", digits)
		format, err := NewFormat(0, layout)

		switch digits % 8 {
		case 1, 3, 6:
			require.ErrorIs(t, err, ErrFormatDefinition, "digits=%d", digits)
			require.Contains(t, err.Error(), fmt.Sprintf("use %d or %d", digits-1, digits+1))
		default:
			require.NoError(t, err, "digits=%d", digits)
			require.Equal(t, digits*5/8, format.ByteCount())
		}
	}
}

func TestNewFormatSuggestedMinimumIsValid(t *testing.T) {
	require := require.New(t)

	// The suggested minimum must itself construct successfully when
	// substituted into the layout.
	opts := make([]options.Option, 26)
	for i := range opts {
		opts[i] = options.NewBool(fmt.Sprintf("flag-%d", i), false)
	}

	// 26 flags: 5+26 = 31 bits, 4 bytes, 7 digits.
	_, err := NewFormat(0, "XX", opts...)
	require.ErrorIs(err, ErrFormatDefinition)
	require.Contains(err.Error(), "at least 7")

	_, err = NewFormat(0, strings.Repeat("X", 7), opts...)
	require.NoError(err)

	// 35 flags: 5+35 = 40 bits, 5 bytes, 8 digits.
	for i := 26; i < 35; i++ {
		opts = append(opts, options.NewBool(fmt.Sprintf("flag-%d", i), false))
	}
	_, err = NewFormat(0, "XX", opts...)
	require.ErrorIs(err, ErrFormatDefinition)
	require.Contains(err.Error(), "at least 8")

	_, err = NewFormat(0, strings.Repeat("X", 8), opts...)
	require.NoError(err)
}

func TestNewFormatDuplicateOptionIDs(t *testing.T) {
	require := require.New(t)

	_, err := NewFormat(0, strings.Repeat("X", 8),
		options.NewBool("hardcore", false),
		options.NewGroup("group", options.NewBool("hardcore", true)),
	)
	require.ErrorIs(err, ErrFormatDefinition)
	require.Contains(err.Error(), "hardcore")
}

func TestFormatDecorationPassesThrough(t *testing.T) {
	require := require.New(t)

	format, err := NewFormat(0, "<XXXX XXXX-XXXX_XXXX!>")
	require.NoError(err)
	require.Equal(10, format.ByteCount())
}
