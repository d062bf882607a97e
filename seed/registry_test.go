// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterFormat(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()

	v1, err := NewFormat(1, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v1))

	// One format per version number.
	v1Again, err := NewFormat(1, "XXXX-XXXX")
	require.NoError(err)
	err = r.RegisterFormat(v1Again)
	require.ErrorIs(err, errDuplicatedVersion)

	v2, err := NewFormat(2, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v2))

	require.Equal([]uint8{1, 2}, r.Versions())
}

func TestRegistryFormatLookup(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	v1, err := NewFormat(1, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v1))

	format, err := r.Format(1)
	require.NoError(err)
	require.Equal(v1, format)

	_, err = r.Format(7)
	require.ErrorIs(err, ErrUnknownVersion)

	var versionErr *UnknownVersionError
	require.True(errors.As(err, &versionErr))
	require.Equal(uint8(7), versionErr.Version)
}

func TestRegistryDefaultFollowsLatest(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()

	_, err := r.DefaultFormat()
	require.ErrorIs(err, errNoFormats)

	v1, err := NewFormat(1, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v1))

	format, err := r.DefaultFormat()
	require.NoError(err)
	require.Equal(v1, format)

	v2, err := NewFormat(2, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v2))

	format, err = r.DefaultFormat()
	require.NoError(err)
	require.Equal(v2, format)
}

func TestRegistrySetDefault(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	v1, err := NewFormat(1, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v1))

	require.ErrorIs(r.SetDefault(9), ErrUnknownVersion)
	require.NoError(r.SetDefault(1))

	// A pinned default no longer follows new registrations.
	v2, err := NewFormat(2, "XXXXXXXX")
	require.NoError(err)
	require.NoError(r.RegisterFormat(v2))

	format, err := r.DefaultFormat()
	require.NoError(err)
	require.Equal(v1, format)
}
