// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seed

import (
	"errors"
	"fmt"
	"sync"

	"github.com/seedkit/seedkit/seed/bitrand"
)

var (
	ErrUnknownVersion    = errors.New("unknown seed version")
	errDuplicatedVersion = errors.New("duplicated seed version")
	errNoFormats         = errors.New("no seed formats registered")
)

// UnknownVersionError reports a version number with no registered format.
// Decoding surfaces it so callers can tell "this seed needs a newer format
// set" apart from a string that is simply garbage.
type UnknownVersionError struct {
	Version uint8
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("%s %d", ErrUnknownVersion, e.Version)
}

func (*UnknownVersionError) Is(target error) bool {
	return target == ErrUnknownVersion
}

// Registry holds the seed formats an application supports, keyed by version
// number. It is intended to be populated once at startup and treated as
// read-only afterwards; encode and decode calls only ever read it.
type Registry struct {
	lock    sync.RWMutex
	formats map[uint8]*Format
	order   []uint8
	// defaultVersion tracks the format used when encoding doesn't name one.
	// Unless SetDefault was called it follows the most recent registration.
	defaultVersion uint8
	pinnedDefault  bool

	random bitrand.Source
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithRandomSource overrides the random source used to fill the random
// segment of generated seeds. Defaults to bitrand.Crypto().
func WithRandomSource(source bitrand.Source) RegistryOption {
	return func(r *Registry) {
		r.random = source
	}
}

// NewRegistry returns an empty format registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		formats: make(map[uint8]*Format),
		random:  bitrand.Crypto(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterFormat adds a format to the registry. Each version number can only
// be registered once; the registry is append-only.
func (r *Registry) RegisterFormat(format *Format) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.formats[format.version]; exists {
		return fmt.Errorf("%w: %d", errDuplicatedVersion, format.version)
	}
	r.formats[format.version] = format
	r.order = append(r.order, format.version)
	if !r.pinnedDefault {
		r.defaultVersion = format.version
	}
	return nil
}

// SetDefault pins the format used when encoding doesn't specify a version.
// The version must already be registered.
func (r *Registry) SetDefault(version uint8) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.formats[version]; !exists {
		return &UnknownVersionError{Version: version}
	}
	r.defaultVersion = version
	r.pinnedDefault = true
	return nil
}

// Format returns the format registered for [version].
func (r *Registry) Format(version uint8) (*Format, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	format, exists := r.formats[version]
	if !exists {
		return nil, &UnknownVersionError{Version: version}
	}
	return format, nil
}

// DefaultFormat returns the format used when encoding doesn't name a
// version.
func (r *Registry) DefaultFormat() (*Format, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if len(r.order) == 0 {
		return nil, errNoFormats
	}
	return r.formats[r.defaultVersion], nil
}

// Versions returns the registered version numbers in registration order.
func (r *Registry) Versions() []uint8 {
	r.lock.RLock()
	defer r.lock.RUnlock()

	versions := make([]uint8, len(r.order))
	copy(versions, r.order)
	return versions
}
