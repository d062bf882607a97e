// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package options

import (
	"errors"
	"fmt"
)

var (
	_ ValueOption = (*Choice)(nil)

	errTooFewChoices  = errors.New("at least two choices are required")
	errDuplicateLabel = errors.New("duplicate choice label")
	errUnknownDefault = errors.New("default value not among choices")
)

// Choice is an option selecting one label from an ordered list. The encoded
// index is the label's position in declaration order, so appending labels is
// backwards compatible while reordering or removing them is not.
type Choice struct {
	id      string
	choices []string
	def     string
	width   int
}

func NewChoice(id, def string, choices ...string) (*Choice, error) {
	if len(choices) < 2 {
		return nil, fmt.Errorf("%w: option %q has %d", errTooFewChoices, id, len(choices))
	}

	seen := make(map[string]struct{}, len(choices))
	for _, label := range choices {
		if _, ok := seen[label]; ok {
			return nil, fmt.Errorf("%w: option %q repeats %q", errDuplicateLabel, id, label)
		}
		seen[label] = struct{}{}
	}
	if _, ok := seen[def]; !ok {
		return nil, fmt.Errorf("%w: option %q defaults to %q", errUnknownDefault, id, def)
	}

	return &Choice{
		id:      id,
		choices: choices,
		def:     def,
		width:   widthFor(uint64(len(choices))),
	}, nil
}

func (*Choice) isOption() {}

func (c *Choice) ID() string {
	return c.id
}

func (c *Choice) Width() int {
	return c.width
}

func (c *Choice) Default() any {
	return c.def
}

// Choices returns the labels in declaration order.
func (c *Choice) Choices() []string {
	choices := make([]string, len(c.choices))
	copy(choices, c.choices)
	return choices
}

func (c *Choice) ValueToBits(value any) (uint64, error) {
	v, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("%w: option %q expects a string, got %T", ErrInvalidValue, c.id, value)
	}
	for i, label := range c.choices {
		if label == v {
			return uint64(i), nil
		}
	}
	return 0, fmt.Errorf("%w: option %q can't encode %q", ErrInvalidValue, c.id, v)
}

func (c *Choice) BitsToValue(bits uint64) (any, error) {
	if bits >= uint64(len(c.choices)) {
		return nil, fmt.Errorf("%w: option %q can't decode %#x", ErrInvalidEncodedValue, c.id, bits)
	}
	return c.choices[bits], nil
}
