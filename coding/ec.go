package coding

import (
	"fmt"

	"github.com/inkstray/qrencode/gf256"
)

// field is the GF(256) instance QR Code's Reed-Solomon coding uses:
// primitive polynomial 0x11d, generator 2.
var field = gf256.NewField(0x11d, 2)

// ECEncode computes error-correction codewords for data and returns
// the full, interleaved codeword sequence ready for canvas placement.
//
// data must hold exactly the data-codeword count (version, l)
// affords. For Micro versions whose final data codeword is a
// half-byte (M1, M3), data's last byte must carry that nibble in its
// upper four bits with the lower four bits zero, matching what
// Bits.IntoBytes produces — Reed-Solomon treats the short codeword as
// a zero-padded full byte, per ISO/IEC 18004.
//
// Normal symbols split data across nblock Reed-Solomon blocks (the
// last `extra` of them one codeword longer), encode each block
// independently, then interleave first by data column across blocks
// and then by check column across blocks — the standard QR Code block
// interleaving that lets a scanner recover from localized damage.
// Micro symbols never split into multiple blocks, so no interleaving
// is needed.
func ECEncode(v Version, l EcLevel, data []byte) ([]byte, error) {
	if v.micro {
		lv := microTab[v.n-1][l]
		if lv.dataCodewords == 0 {
			return nil, errInvalidVersion(v, l)
		}
		if len(data) != lv.dataCodewords {
			return nil, fmt.Errorf("%w: got %d data codewords, want %d", ErrDataTooLong, len(data), lv.dataCodewords)
		}
		check := make([]byte, lv.checkCodewords)
		rs := gf256.NewRSEncoder(field, lv.checkCodewords)
		rs.ECC(data, check)
		out := make([]byte, 0, lv.dataCodewords+lv.checkCodewords)
		out = append(out, data...)
		out = append(out, check...)
		return out, nil
	}

	if !v.valid() {
		return nil, errInvalidVersion(v, l)
	}
	vt := &normalTab[v.n]
	lev := vt.level[l]
	if lev.nblock == 0 {
		return nil, errInvalidVersion(v, l)
	}
	nd := vt.bytes - lev.nblock*lev.check
	if len(data) != nd {
		return nil, fmt.Errorf("%w: got %d data codewords, want %d", ErrDataTooLong, len(data), nd)
	}

	base := nd / lev.nblock
	extra := nd % lev.nblock
	rs := gf256.NewRSEncoder(field, lev.check)

	dataBlocks := make([][]byte, lev.nblock)
	checkBlocks := make([][]byte, lev.nblock)
	off := 0
	for i := 0; i < lev.nblock; i++ {
		n := base
		if i >= lev.nblock-extra {
			n++
		}
		dataBlocks[i] = data[off : off+n]
		off += n
		check := make([]byte, lev.check)
		rs.ECC(dataBlocks[i], check)
		checkBlocks[i] = check
	}

	out := make([]byte, 0, vt.bytes)
	maxData := base
	if extra > 0 {
		maxData++
	}
	for col := 0; col < maxData; col++ {
		for _, blk := range dataBlocks {
			if col < len(blk) {
				out = append(out, blk[col])
			}
		}
	}
	for col := 0; col < lev.check; col++ {
		for _, blk := range checkBlocks {
			out = append(out, blk[col])
		}
	}
	return out, nil
}

// MaxAllowedErrors returns the number of erroneous codewords (version,
// l) can tolerate and still decode: half the check codewords in each
// Reed-Solomon block, summed across blocks (each block can correct up
// to check/2 errors when their positions are unknown).
func MaxAllowedErrors(v Version, l EcLevel) (int, bool) {
	if v.micro {
		lv := microTab[v.n-1][l]
		if lv.checkCodewords == 0 {
			return 0, false
		}
		return lv.checkCodewords / 2, true
	}
	if !v.valid() {
		return 0, false
	}
	vt := &normalTab[v.n]
	lev := vt.level[l]
	if lev.nblock == 0 {
		return 0, false
	}
	return lev.nblock * (lev.check / 2), true
}
