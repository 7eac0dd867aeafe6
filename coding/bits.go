package coding

import (
	"fmt"

	"golang.org/x/text/encoding/japanese"
)

// Bits is an append-only bit buffer tied to a Version. Every typed
// pusher writes big-endian, left-to-right across bytes, mirroring the
// wire order ISO/IEC 18004 specifies. Bits has no notion of EcLevel
// until PushTerminator is called, so it enforces only a soft cap: the
// largest bit budget any EcLevel at this version could offer (the L
// level, which has the least parity and hence the most room for
// data). The real, level-specific budget is enforced by
// PushTerminator.
type Bits struct {
	version Version
	buf     []byte
	nbit    int
	capBits int
}

// NewBits returns an empty Bits buffer for the given version.
func NewBits(v Version) (*Bits, error) {
	if !v.valid() {
		return nil, errInvalidVersion(v, L)
	}
	cap, ok := maxDataBits(v)
	if !ok {
		return nil, errInvalidVersion(v, L)
	}
	return &Bits{version: v, capBits: cap}, nil
}

// maxDataBits returns the largest data-bit budget available to any
// EcLevel supported at v (i.e. the L-level budget, or whichever is the
// only supported level for Micro 1).
func maxDataBits(v Version) (int, bool) {
	for _, l := range []EcLevel{L, M, Q, H} {
		if v.micro {
			if bits, ok := microDataBits(v, l); ok {
				return bits, true
			}
			continue
		}
		if n, ok := DataBytes(v, l); ok {
			return n * 8, true
		}
	}
	return 0, false
}

// Version returns the version this buffer was created for.
func (b *Bits) Version() Version { return b.version }

// Len returns the number of bits written so far.
func (b *Bits) Len() int { return b.nbit }

// write appends the low nbits bits of value, most significant bit
// first.
func (b *Bits) write(value uint32, nbits int) {
	for i := nbits - 1; i >= 0; i-- {
		bit := (value >> uint(i)) & 1
		if b.nbit%8 == 0 {
			b.buf = append(b.buf, 0)
		}
		if bit != 0 {
			b.buf[len(b.buf)-1] |= 1 << uint(7-b.nbit%8)
		}
		b.nbit++
	}
}

func (b *Bits) checkCapacity(extra int) error {
	if b.nbit+extra > b.capBits {
		return fmt.Errorf("%w: %d bits requested, %d-bit budget for %v", ErrDataTooLong, b.nbit+extra, b.capBits, b.version)
	}
	return nil
}

// PushNumber writes the low nbits bits of value.
func (b *Bits) PushNumber(nbits int, value uint32) error {
	if nbits < 0 || nbits > 32 {
		return fmt.Errorf("%w: invalid bit width %d", ErrDataTooLong, nbits)
	}
	if nbits < 32 && value>>uint(nbits) != 0 {
		return fmt.Errorf("%w: value %d does not fit in %d bits", ErrDataTooLong, value, nbits)
	}
	if err := b.checkCapacity(nbits); err != nil {
		return err
	}
	b.write(value, nbits)
	return nil
}

// PushModeIndicator writes the mode indicator for m: a 4-bit field for
// Normal symbols, or a version-specific 0-3 bit field for Micro QR (M1
// has no indicator at all, since it only ever carries Numeric data).
func (b *Bits) PushModeIndicator(m Mode) error {
	if !modeSupported(m, b.version) {
		return fmt.Errorf("%w: mode %v unsupported at version %v", ErrInvalidVersion, m, b.version)
	}
	if b.version.micro {
		width := microModeIndicatorWidth[b.version.n-1]
		if width == 0 {
			return nil
		}
		return b.PushNumber(width, microModeValue[m])
	}
	var v uint32
	switch m {
	case Numeric:
		v = 1
	case Alphanumeric:
		v = 2
	case Byte:
		v = 4
	case Kanji:
		v = 8
	}
	return b.PushNumber(4, v)
}

// PushHeader writes m's mode indicator followed by its character-count
// indicator, set to charCount.
func (b *Bits) PushHeader(m Mode, charCount int) error {
	if err := b.PushModeIndicator(m); err != nil {
		return err
	}
	ccbits := numCharCountBits(m, b.version)
	if charCount < 0 || (ccbits < 32 && charCount >= 1<<uint(ccbits)) {
		return fmt.Errorf("%w: %d characters do not fit the %d-bit count indicator for %v at %v", ErrDataTooLong, charCount, ccbits, m, b.version)
	}
	return b.PushNumber(ccbits, uint32(charCount))
}

// PushNumericData validates that s consists only of decimal digits and
// packs it three digits per 10 bits (a final pair costs 7 bits, a
// final single digit 4 bits).
func (b *Bits) PushNumericData(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%w: %q is not numeric", ErrUnsupportedCharacterSet, s)
		}
	}
	i := 0
	for ; i+3 <= len(s); i += 3 {
		v := uint32(s[i]-'0')*100 + uint32(s[i+1]-'0')*10 + uint32(s[i+2]-'0')
		if err := b.PushNumber(10, v); err != nil {
			return err
		}
	}
	switch len(s) - i {
	case 1:
		if err := b.PushNumber(4, uint32(s[i]-'0')); err != nil {
			return err
		}
	case 2:
		v := uint32(s[i]-'0')*10 + uint32(s[i+1]-'0')
		if err := b.PushNumber(7, v); err != nil {
			return err
		}
	}
	return nil
}

// PushAlphanumericData validates that s consists only of characters in
// the Alphanumeric alphabet (0-9, A-Z, space, $%*+-./:) and packs it
// two characters per 11 bits (a final odd character costs 6 bits).
func (b *Bits) PushAlphanumericData(s string) error {
	for i := 0; i < len(s); i++ {
		if alphanumericIndex[s[i]] < 0 {
			return fmt.Errorf("%w: %q is not alphanumeric", ErrUnsupportedCharacterSet, s)
		}
	}
	i := 0
	for ; i+2 <= len(s); i += 2 {
		v := uint32(alphanumericIndex[s[i]])*45 + uint32(alphanumericIndex[s[i+1]])
		if err := b.PushNumber(11, v); err != nil {
			return err
		}
	}
	if i < len(s) {
		if err := b.PushNumber(6, uint32(alphanumericIndex[s[i]])); err != nil {
			return err
		}
	}
	return nil
}

// PushByteData packs data eight bits per byte. Every byte value is
// valid.
func (b *Bits) PushByteData(data []byte) error {
	for _, c := range data {
		if err := b.PushNumber(8, uint32(c)); err != nil {
			return err
		}
	}
	return nil
}

// PushKanjiData validates that s encodes entirely to Shift-JIS and
// packs each resulting two-byte code as a 13-bit value, the way
// ISO/IEC 18004 Kanji mode requires.
func (b *Bits) PushKanjiData(s string) error {
	sjis, err := japanese.ShiftJIS.NewEncoder().String(s)
	if err != nil || len(sjis)%2 != 0 {
		return fmt.Errorf("%w: %q does not encode to Shift-JIS", ErrUnsupportedCharacterSet, s)
	}
	return b.pushKanjiPairs([]byte(sjis))
}

// pushKanjiPairs packs already Shift-JIS-encoded byte pairs, used both
// by PushKanjiData (after transcoding from UTF-8) and by the segment
// optimizer, which detects Kanji runs directly in its raw input bytes
// without ever attempting a UTF-8-to-Shift-JIS transcode.
func (b *Bits) pushKanjiPairs(sjis []byte) error {
	for i := 0; i+2 <= len(sjis); i += 2 {
		lead, trail := uint32(sjis[i]), uint32(sjis[i+1])
		v := (lead&^0xc0)*0xc0 + trail - 0x100
		if err := b.PushNumber(13, v); err != nil {
			return err
		}
	}
	return nil
}

// PushEciDesignator writes an ECI designator for assignment, which
// must fit 1, 2 or 3 bytes depending on magnitude. ECI is not part of
// Micro QR.
func (b *Bits) PushEciDesignator(assignment uint32) error {
	if b.version.micro {
		return fmt.Errorf("%w", ErrInvalidEciDesignator)
	}
	if err := b.PushNumber(4, 7); err != nil { // ECI mode indicator
		return err
	}
	switch {
	case assignment < 1<<7:
		return b.PushNumber(8, assignment)
	case assignment < 1<<14:
		return b.PushNumber(16, assignment|(2<<14))
	case assignment < 1_000_000:
		return b.PushNumber(24, assignment|(6<<21))
	default:
		return fmt.Errorf("%w: ECI assignment %d out of range", ErrInvalidEciDesignator, assignment)
	}
}

// PushFnc1FirstPosition writes the FNC1-in-first-position indicator.
// Not part of Micro QR.
func (b *Bits) PushFnc1FirstPosition() error {
	if b.version.micro {
		return fmt.Errorf("%w", ErrInvalidEciDesignator)
	}
	return b.PushNumber(4, 5)
}

// PushFnc1SecondPosition writes the FNC1-in-second-position indicator
// followed by the application identifier. Not part of Micro QR.
func (b *Bits) PushFnc1SecondPosition(appID byte) error {
	if b.version.micro {
		return fmt.Errorf("%w", ErrInvalidEciDesignator)
	}
	if err := b.PushNumber(4, 9); err != nil {
		return err
	}
	return b.PushNumber(8, uint32(appID))
}

// PushTerminator writes the mode-terminator zero bits (up to 4 for
// Normal; version-specific for Micro), byte-aligns, then fills with
// alternating 0xEC/0x11 pad bytes up to the data-codeword budget for
// (version, ecLevel). It fails with ErrDataTooLong if the data written
// so far exceeds that budget; when fewer bits remain than the full
// terminator needs, the terminator is shortened to fit (or omitted).
func (b *Bits) PushTerminator(ecLevel EcLevel) error {
	dataBits, ok := b.dataBitBudget(ecLevel)
	if !ok {
		return errInvalidVersion(b.version, ecLevel)
	}
	if b.nbit > dataBits {
		return fmt.Errorf("%w: %d bits written exceeds %d-bit budget for %v at %v", ErrDataTooLong, b.nbit, dataBits, b.version, ecLevel)
	}

	var termLen int
	if b.version.micro {
		termLen = microTerminatorBits[b.version.n-1]
	} else {
		termLen = 4
	}
	remaining := dataBits - b.nbit
	if termLen > remaining {
		termLen = remaining
	}
	b.write(0, termLen)

	if pad := -b.nbit & 7; pad > 0 {
		if b.nbit+pad > dataBits {
			pad = dataBits - b.nbit
		}
		b.write(0, pad)
	}

	padBytes := [2]uint32{0xEC, 0x11}
	i := 0
	for b.nbit+8 <= dataBits {
		b.write(padBytes[i%2], 8)
		i++
	}
	if rem := dataBits - b.nbit; rem > 0 {
		// Micro QR's short final data codeword (M1, M3): only the
		// high nibble of the next pad byte fits.
		b.write(padBytes[i%2]>>uint(8-rem), rem)
	}
	if b.nbit != dataBits {
		return fmt.Errorf("%w: could not pad to %d-bit budget", ErrDataTooLong, dataBits)
	}
	return nil
}

// dataBitBudget returns the data-codeword bit budget for (version,
// ecLevel).
func (b *Bits) dataBitBudget(ecLevel EcLevel) (int, bool) {
	if b.version.micro {
		return microDataBits(b.version, ecLevel)
	}
	n, ok := DataBytes(b.version, ecLevel)
	if !ok {
		return 0, false
	}
	return n * 8, true
}

// IntoBytes consumes the buffer, returning the data codewords and the
// number of valid bits in the final codeword (always 8 except for
// Micro QR's short final codeword, which has 4).
func (b *Bits) IntoBytes() ([]byte, int) {
	tail := 8
	if b.version.micro && microShortLastCodeword(b.version.n) {
		tail = 4
	}
	buf := b.buf
	b.buf, b.nbit = nil, 0
	return buf, tail
}
