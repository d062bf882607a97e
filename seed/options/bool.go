// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package options

import "fmt"

var _ ValueOption = (*Bool)(nil)

// Bool is a two-state option occupying a single bit.
type Bool struct {
	id  string
	def bool
}

func NewBool(id string, def bool) *Bool {
	return &Bool{
		id:  id,
		def: def,
	}
}

func (*Bool) isOption() {}

func (b *Bool) ID() string {
	return b.id
}

func (*Bool) Width() int {
	return 1
}

func (b *Bool) Default() any {
	return b.def
}

func (b *Bool) ValueToBits(value any) (uint64, error) {
	v, ok := value.(bool)
	if !ok {
		return 0, fmt.Errorf("%w: option %q expects a bool, got %T", ErrInvalidValue, b.id, value)
	}
	if v {
		return 1, nil
	}
	return 0, nil
}

func (b *Bool) BitsToValue(bits uint64) (any, error) {
	switch bits {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, fmt.Errorf("%w: option %q can't decode %#x", ErrInvalidEncodedValue, b.id, bits)
	}
}
