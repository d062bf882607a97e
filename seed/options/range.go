// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package options

import (
	"errors"
	"fmt"
)

var (
	_ ValueOption = (*Range)(nil)

	errInvalidStep     = errors.New("step must be positive")
	errInvalidBounds   = errors.New("max must be greater than min")
	errUnalignedBounds = errors.New("min and max must be multiples of step")
	errDefaultOutside  = errors.New("default value outside option domain")
)

// Range is a bounded integer option stepping from [min] to [max] by [step].
// Its width is the number of bits needed to index every representable value.
type Range struct {
	id       string
	min, max int64
	step     int64
	def      int64
	width    int
}

// NewRange returns an option covering all multiples of [step] in [min, max].
// Both bounds must themselves be multiples of [step], and the domain must
// contain at least two values.
func NewRange(id string, min, max, step, def int64) (*Range, error) {
	switch {
	case step <= 0:
		return nil, fmt.Errorf("%w: option %q has step %d", errInvalidStep, id, step)
	case max <= min:
		return nil, fmt.Errorf("%w: option %q has range [%d, %d]", errInvalidBounds, id, min, max)
	case min%step != 0 || max%step != 0:
		return nil, fmt.Errorf("%w: option %q has range [%d, %d] with step %d", errUnalignedBounds, id, min, max, step)
	}

	r := &Range{
		id:   id,
		min:  min,
		max:  max,
		step: step,
		def:  def,
	}
	if _, err := r.ValueToBits(def); err != nil {
		return nil, fmt.Errorf("%w: option %q default %d", errDefaultOutside, id, def)
	}

	count := uint64((max-min)/step) + 1
	r.width = widthFor(count)
	return r, nil
}

func (*Range) isOption() {}

func (r *Range) ID() string {
	return r.id
}

func (r *Range) Width() int {
	return r.width
}

func (r *Range) Default() any {
	return r.def
}

func (r *Range) ValueToBits(value any) (uint64, error) {
	var v int64
	switch value := value.(type) {
	case int64:
		v = value
	case int:
		v = int64(value)
	default:
		return 0, fmt.Errorf("%w: option %q expects an integer, got %T", ErrInvalidValue, r.id, value)
	}

	if v < r.min || v > r.max || (v-r.min)%r.step != 0 {
		return 0, fmt.Errorf("%w: option %q can't encode %d", ErrInvalidValue, r.id, v)
	}
	return uint64((v - r.min) / r.step), nil
}

func (r *Range) BitsToValue(bits uint64) (any, error) {
	count := uint64((r.max-r.min)/r.step) + 1
	if bits >= count {
		return nil, fmt.Errorf("%w: option %q can't decode %#x", ErrInvalidEncodedValue, r.id, bits)
	}
	return r.min + int64(bits)*r.step, nil
}
