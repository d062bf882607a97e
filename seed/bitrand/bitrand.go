// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bitrand supplies random bit strings of arbitrary width.
package bitrand

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Source draws a non-negative integer with the given number of random bits.
// Implementations must either be safe for concurrent use or be owned by a
// single caller.
type Source interface {
	Draw(width int) (*big.Int, error)
}

type cryptoSource struct{}

// Crypto returns a Source backed by crypto/rand. It is safe for concurrent
// use.
func Crypto() Source {
	return cryptoSource{}
}

func (cryptoSource) Draw(width int) (*big.Int, error) {
	if width <= 0 {
		return new(big.Int), nil
	}

	buf := make([]byte, (width+byteWidth-1)/byteWidth)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("couldn't draw %d random bits: %w", width, err)
	}

	bits := new(big.Int).SetBytes(buf)
	return maskWidth(bits, width), nil
}

type fixedSource struct {
	value *big.Int
}

// Fixed returns a Source that always draws [value], truncated to the
// requested width. It exists for deterministic tests.
func Fixed(value *big.Int) Source {
	return fixedSource{value: value}
}

func (f fixedSource) Draw(width int) (*big.Int, error) {
	return maskWidth(new(big.Int).Set(f.value), width), nil
}

const byteWidth = 8

// maskWidth truncates [bits] to its [width] low bits.
func maskWidth(bits *big.Int, width int) *big.Int {
	if width < 0 {
		width = 0
	}
	mask := new(big.Int).Lsh(big.NewInt(1), uint(width))
	mask.Sub(mask, big.NewInt(1))
	return bits.And(bits, mask)
}
