// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package options defines the bit-level codec contract implemented by every
// value-carrying seed option, along with the grouping nodes used to arrange
// options into a tree.
package options

import (
	"errors"
	"math/bits"
)

var (
	// ErrInvalidValue is returned by ValueToBits when the supplied value is
	// outside the option's declared domain.
	ErrInvalidValue = errors.New("value outside option domain")

	// ErrInvalidEncodedValue is returned by BitsToValue when a decoded bit
	// pattern doesn't correspond to any value in the option's domain. Foreign
	// or corrupted seed strings can produce any of the 2^width patterns, so
	// every option must handle all of them.
	ErrInvalidEncodedValue = errors.New("bit pattern outside option domain")
)

// Option is a node in an option tree. Value options contribute bits to the
// seed encoding; groups only arrange their children for presentation.
type Option interface {
	// isOption restricts implementations to this package's variants so that
	// flattening can rely on an exhaustive type switch.
	isOption()
}

// ValueOption is the codec contract for a single value-carrying option.
//
// Width is fixed when the option is constructed and never changes afterwards,
// as it determines the option's bit position in every seed ever encoded with
// a format containing it.
type ValueOption interface {
	Option

	// ID returns the option's stable identifier. Seeds key their decoded
	// values by this string.
	ID() string

	// Width returns the number of bits this option occupies in a seed.
	Width() int

	// Default returns the value encoded when no explicit value is supplied.
	Default() any

	// ValueToBits maps a domain value to an index in [0, 2^width).
	ValueToBits(value any) (uint64, error)

	// BitsToValue is the exact inverse of ValueToBits for in-domain indices
	// and returns ErrInvalidEncodedValue for every other bit pattern.
	BitsToValue(bits uint64) (any, error)
}

// Group is a container node holding an ordered sequence of child options. It
// contributes no bits itself.
type Group struct {
	title    string
	children []Option
}

// NewGroup returns a grouping node with the given presentation title and
// ordered children.
func NewGroup(title string, children ...Option) *Group {
	return &Group{
		title:    title,
		children: children,
	}
}

func (*Group) isOption() {}

func (g *Group) Title() string {
	return g.title
}

func (g *Group) Children() []Option {
	children := make([]Option, len(g.children))
	copy(children, g.children)
	return children
}

// Flatten walks the option tree depth-first, preserving declaration order,
// and returns the value options that participate in encoding. The returned
// order fixes each option's bit position.
func Flatten(opts []Option) []ValueOption {
	var flattened []ValueOption
	for _, opt := range opts {
		switch opt := opt.(type) {
		case ValueOption:
			flattened = append(flattened, opt)
		case *Group:
			flattened = append(flattened, Flatten(opt.children)...)
		}
	}
	return flattened
}

// widthFor returns the number of bits needed to index [count] distinct
// values, i.e. ceil(log2(count)). [count] must be at least 2.
func widthFor(count uint64) int {
	return bits.Len64(count - 1)
}
