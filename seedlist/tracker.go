// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package seedlist

import (
	"sync"

	"github.com/seedkit/seedkit/seed"
)

// Tracker maintains the single currently-active seed. Enabling a seed equal
// to the active one is a no-op; enabling a different one disables the active
// seed first.
type Tracker struct {
	lock      sync.Mutex
	current   *seed.Seed
	onEnable  func(*seed.Seed)
	onDisable func(*seed.Seed)
}

// NewTracker returns a tracker invoking the given callbacks as seeds are
// switched. Either callback may be nil.
func NewTracker(onEnable, onDisable func(*seed.Seed)) *Tracker {
	return &Tracker{
		onEnable:  onEnable,
		onDisable: onDisable,
	}
}

// Enable makes [s] the active seed.
func (t *Tracker) Enable(s *seed.Seed) {
	if s == nil {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.current != nil {
		if t.current.Equal(s) {
			return
		}
		if t.onDisable != nil {
			t.onDisable(t.current)
		}
	}

	t.current = s
	if t.onEnable != nil {
		t.onEnable(s)
	}
}

// Disable deactivates the active seed, if any.
func (t *Tracker) Disable() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.current == nil {
		return
	}
	if t.onDisable != nil {
		t.onDisable(t.current)
	}
	t.current = nil
}

// Current returns the active seed, or nil.
func (t *Tracker) Current() *seed.Seed {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.current
}
