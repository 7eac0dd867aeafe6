// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qrencode builds QR Code and Micro QR Code symbols. It is the
// one-shot facade over package coding: callers hand it a payload and an
// error-correction level and get back a finished module grid, without
// touching segmentation, bit packing or masking directly.
package qrencode

import (
	"errors"

	"github.com/inkstray/qrencode/coding"
)

// QrSymbol is a finished QR Code or Micro QR Code: a square grid of
// light/dark modules plus the parameters it was built with.
type QrSymbol struct {
	version coding.Version
	level   coding.EcLevel
	mask    coding.Mask
	layout  *coding.Layout
	grid    *coding.Grid
}

// Version returns the symbol's version.
func (s *QrSymbol) Version() coding.Version { return s.version }

// EcLevel returns the symbol's error-correction level.
func (s *QrSymbol) EcLevel() coding.EcLevel { return s.level }

// Mask returns the mask pattern index BestMask selected for this symbol.
func (s *QrSymbol) Mask() coding.Mask { return s.mask }

// Width returns the number of modules on one side of the symbol.
func (s *QrSymbol) Width() int { return s.version.Width() }

// At returns the color of module (x, y).
func (s *QrSymbol) At(x, y int) coding.Color {
	if s.grid.Dark(x, y) {
		return coding.Dark
	}
	return coding.Light
}

// IsFunctional reports whether module (x, y) belongs to a functional
// pattern (finder, timing, alignment, format/version info, the Normal
// dark module) rather than to the data/check bit stream.
func (s *QrSymbol) IsFunctional(x, y int) bool {
	return s.layout.IsFunctional(x, y)
}

// Modules returns every module of the symbol, row-major: index
// y*Width()+x holds the color of module (x, y).
func (s *QrSymbol) Modules() []coding.Color {
	w := s.Width()
	out := make([]coding.Color, w*w)
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = s.At(x, y)
		}
	}
	return out
}

// MaxAllowedErrors returns the number of erroneous codewords this
// symbol's error-correction level can tolerate and still decode.
func (s *QrSymbol) MaxAllowedErrors() int {
	n, _ := coding.MaxAllowedErrors(s.version, s.level)
	return n
}

// MaxAllowedErrors returns the number of erroneous codewords (v, level)
// can tolerate and still decode, or ok=false if the combination is
// unsupported.
func MaxAllowedErrors(v coding.Version, level coding.EcLevel) (n int, ok bool) {
	return coding.MaxAllowedErrors(v, level)
}

// EncodeWithVersion builds a symbol at exactly the given version and
// error-correction level: it segments data with the automatic
// optimizer, packs it into a Bits buffer, terminates and pads it to
// (version, level)'s budget, computes Reed-Solomon parity, lays out the
// canvas, and picks the winning mask by penalty/score.
//
// It fails with coding.ErrInvalidVersion if (version, level) is not a
// legal combination, coding.ErrDataTooLong if data does not fit that
// budget, or coding.ErrUnsupportedCharacterSet if a segment rejects its
// own bytes (which the automatic optimizer
// never produces on its own, since it only ever picks modes a run's
// bytes already satisfy).
func EncodeWithVersion(data []byte, v coding.Version, level coding.EcLevel) (*QrSymbol, error) {
	bits, err := coding.NewBits(v)
	if err != nil {
		return nil, err
	}
	if err := coding.AppendOptimalData(bits, data); err != nil {
		return nil, err
	}
	if err := bits.PushTerminator(level); err != nil {
		return nil, err
	}
	dataCodewords, _ := bits.IntoBytes()

	codewords, err := coding.ECEncode(v, level, dataCodewords)
	if err != nil {
		return nil, err
	}

	layout, err := coding.NewLayout(v, level)
	if err != nil {
		return nil, err
	}
	grid, mask := coding.BestMask(layout, codewords)

	return &QrSymbol{version: v, level: level, mask: mask, layout: layout, grid: grid}, nil
}

// candidateVersions lists every version Encode tries, in the ascending
// order spec.md's auto-selection requires: Micro 1 through 4, then
// Normal 1 through 40.
func candidateVersions() []coding.Version {
	vs := make([]coding.Version, 0, 44)
	for n := 1; n <= 4; n++ {
		vs = append(vs, coding.MicroVersion(n))
	}
	for n := 1; n <= 40; n++ {
		vs = append(vs, coding.Normal(n))
	}
	return vs
}

// Encode picks the smallest version (Micro before Normal, ascending
// within each family) whose capacity fits data at the given
// error-correction level, then builds the symbol exactly as
// EncodeWithVersion does.
//
// A version/level combination that doesn't exist at all (e.g. Micro 1
// requested at any level but L) is skipped silently; one that exists
// but is too small for data contributes coding.ErrDataTooLong, which is
// what Encode returns if every version is exhausted. Any other failure
// (an unsupported character in data) is not version-dependent and is
// returned immediately.
func Encode(data []byte, level coding.EcLevel) (*QrSymbol, error) {
	var lastErr error
	for _, v := range candidateVersions() {
		sym, err := EncodeWithVersion(data, v, level)
		if err == nil {
			return sym, nil
		}
		switch {
		case errors.Is(err, coding.ErrInvalidVersion):
			continue
		case errors.Is(err, coding.ErrDataTooLong):
			lastErr = err
			continue
		default:
			return nil, err
		}
	}
	if lastErr == nil {
		lastErr = coding.ErrDataTooLong
	}
	return nil, lastErr
}
