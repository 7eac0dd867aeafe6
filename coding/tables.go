package coding

// alphanumeric is the alphabet for Alphanumeric mode, in the order QR
// Code assigns numeric values 0-44 to characters.
const alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// alphanumericIndex maps a byte to its position in alphanumeric, or -1.
var alphanumericIndex [256]int8

func init() {
	for i := range alphanumericIndex {
		alphanumericIndex[i] = -1
	}
	for i := 0; i < len(alphanumeric); i++ {
		alphanumericIndex[alphanumeric[i]] = int8(i)
	}
}

// numCharCountBits returns the bit width of mode m's character-count
// indicator at version v.
func numCharCountBits(m Mode, v Version) int {
	if v.micro {
		row := microCountBits[v.n-1]
		w := row[m]
		return w
	}
	var tab [3]int
	switch m {
	case Numeric:
		tab = [3]int{10, 12, 14}
	case Alphanumeric:
		tab = [3]int{9, 11, 13}
	case Byte:
		tab = [3]int{8, 16, 16}
	case Kanji:
		tab = [3]int{8, 10, 12}
	}
	return tab[v.sizeClass()]
}

// modeSupported reports whether mode m may be used at version v. Every
// mode is available in a Normal symbol; Micro QR restricts which modes
// are usable at each of its four versions.
func modeSupported(m Mode, v Version) bool {
	if !v.micro {
		return true
	}
	return microCountBits[v.n-1][m] > 0
}

// microCountBits[v-1][mode] is the character-count-indicator width for
// mode at Micro version v, or 0 if the mode is unsupported at that
// version (ISO/IEC 18004 Table 8).
var microCountBits = [4][4]int{
	{3, 0, 0, 0},  // M1: Numeric only
	{4, 3, 0, 0},  // M2: Numeric, Alphanumeric
	{5, 4, 4, 3},  // M3: all four modes
	{6, 5, 5, 4},  // M4: all four modes
}

// microModeIndicatorWidth is the bit width of the mode indicator field
// at Micro version v (v is 1-based): M1 has no mode indicator at all
// (it is implicitly Numeric), M2 uses 1 bit, M3 2 bits, M4 3 bits.
var microModeIndicatorWidth = [4]int{0, 1, 2, 3}

// microModeValue is the mode indicator's integer value, shared across
// all Micro versions; every mode a version supports has a value that
// fits its microModeIndicatorWidth bits (e.g. M2 supports only Numeric
// and Alphanumeric, values 0 and 1, in its 1-bit field).
var microModeValue = map[Mode]uint32{
	Numeric:      0,
	Alphanumeric: 1,
	Byte:         2,
	Kanji:        3,
}

// microTerminatorBits is the terminator length for Micro version v
// (1-based): 3, 5, 7 or 9 zero bits for M1 through M4.
var microTerminatorBits = [4]int{3, 5, 7, 9}

// A microLevel describes the codeword layout for one (Micro version,
// EcLevel) pair. dataCodewords counts full-byte codewords, with the
// final codeword of an odd Micro version (M1, M3) holding data in its
// upper nibble only; checkCodewords is always whole bytes. A zero
// value means the combination is unsupported.
type microLevel struct {
	dataCodewords  int
	checkCodewords int
}

// microTab[v-1][level] holds the codeword layout, or the zero value if
// unsupported, per ISO/IEC 18004 Table 7 & Table 9. Micro QR never
// splits into multiple Reed-Solomon blocks.
var microTab = [4][4]microLevel{
	{{3, 2}, {}, {}, {}},                    // M1: L only (the "no EC" shim)
	{{5, 5}, {4, 6}, {}, {}},                // M2: L, M
	{{11, 6}, {9, 8}, {}, {}},                // M3: L, M
	{{16, 8}, {14, 10}, {10, 14}, {}},       // M4: L, M, Q
}

// microShortLastCodeword reports whether Micro version v (1-based)
// places only the upper nibble of its final data codeword on the
// canvas: true for the odd versions M1 and M3.
func microShortLastCodeword(n int) bool {
	return n == 1 || n == 3
}

// microDataBits returns the number of data+terminator+pad bits
// available at (version, level), and microTotalBits additionally
// includes the check codewords.
func microDataBits(v Version, l EcLevel) (int, bool) {
	lv := microTab[v.n-1][l]
	if lv.dataCodewords == 0 {
		return 0, false
	}
	if microShortLastCodeword(v.n) {
		return (lv.dataCodewords-1)*8 + 4, true
	}
	return lv.dataCodewords * 8, true
}

func microTotalBits(v Version, l EcLevel) (int, bool) {
	lv := microTab[v.n-1][l]
	if lv.dataCodewords == 0 {
		return 0, false
	}
	data, _ := microDataBits(v, l)
	return data + lv.checkCodewords*8, true
}

// A normalLevel describes one Reed-Solomon block group within a Normal
// version's error-correction table: nblock equal-size blocks, each
// with check parity codewords.
type normalLevel struct {
	nblock int
	check  int
}

// A normalVersionInfo describes the fixed, version-wide metadata of a
// Normal QR Code version: the alignment-pattern coordinate generator
// (apos, astride — see alignmentCoords), the total codeword count, the
// precomputed 18-bit version-information pattern (0 below version 7,
// where none is drawn), and the block layout per EcLevel.
type normalVersionInfo struct {
	apos    int
	astride int
	bytes   int
	pattern int
	level   [4]normalLevel
}

// normalTab holds ISO/IEC 18004 Table 9's error-correction
// characteristics for Normal versions 1-40, plus each version's
// alignment-pattern placement parameters and (from version 7) its BCH
// version-information pattern. Index 0 is unused.
var normalTab = []normalVersionInfo{
	{},
	{100, 100, 26, 0x0, [4]normalLevel{{1, 7}, {1, 10}, {1, 13}, {1, 17}}},
	{16, 100, 44, 0x0, [4]normalLevel{{1, 10}, {1, 16}, {1, 22}, {1, 28}}},
	{20, 100, 70, 0x0, [4]normalLevel{{1, 15}, {1, 26}, {2, 18}, {2, 22}}},
	{24, 100, 100, 0x0, [4]normalLevel{{1, 20}, {2, 18}, {2, 26}, {4, 16}}},
	{28, 100, 134, 0x0, [4]normalLevel{{1, 26}, {2, 24}, {4, 18}, {4, 22}}},
	{32, 100, 172, 0x0, [4]normalLevel{{2, 18}, {4, 16}, {4, 24}, {4, 28}}},
	{20, 16, 196, 0x7c94, [4]normalLevel{{2, 20}, {4, 18}, {6, 18}, {5, 26}}},
	{22, 18, 242, 0x85bc, [4]normalLevel{{2, 24}, {4, 22}, {6, 22}, {6, 26}}},
	{24, 20, 292, 0x9a99, [4]normalLevel{{2, 30}, {5, 22}, {8, 20}, {8, 24}}},
	{26, 22, 346, 0xa4d3, [4]normalLevel{{4, 18}, {5, 26}, {8, 24}, {8, 28}}},
	{28, 24, 404, 0xbbf6, [4]normalLevel{{4, 20}, {5, 30}, {8, 28}, {11, 24}}},
	{30, 26, 466, 0xc762, [4]normalLevel{{4, 24}, {8, 22}, {10, 26}, {11, 28}}},
	{32, 28, 532, 0xd847, [4]normalLevel{{4, 26}, {9, 22}, {12, 24}, {16, 22}}},
	{24, 20, 581, 0xe60d, [4]normalLevel{{4, 30}, {9, 24}, {16, 20}, {16, 24}}},
	{24, 22, 655, 0xf928, [4]normalLevel{{6, 22}, {10, 24}, {12, 30}, {18, 24}}},
	{24, 24, 733, 0x10b78, [4]normalLevel{{6, 24}, {10, 28}, {17, 24}, {16, 30}}},
	{28, 24, 815, 0x1145d, [4]normalLevel{{6, 28}, {11, 28}, {16, 28}, {19, 28}}},
	{28, 26, 901, 0x12a17, [4]normalLevel{{6, 30}, {13, 26}, {18, 28}, {21, 28}}},
	{28, 28, 991, 0x13532, [4]normalLevel{{7, 28}, {14, 26}, {21, 26}, {25, 26}}},
	{32, 28, 1085, 0x149a6, [4]normalLevel{{8, 28}, {16, 26}, {20, 30}, {25, 28}}},
	{26, 22, 1156, 0x15683, [4]normalLevel{{8, 28}, {17, 26}, {23, 28}, {25, 30}}},
	{24, 24, 1258, 0x168c9, [4]normalLevel{{9, 28}, {17, 28}, {23, 30}, {34, 24}}},
	{28, 24, 1364, 0x177ec, [4]normalLevel{{9, 30}, {18, 28}, {25, 30}, {30, 30}}},
	{26, 26, 1474, 0x18ec4, [4]normalLevel{{10, 30}, {20, 28}, {27, 30}, {32, 30}}},
	{30, 26, 1588, 0x191e1, [4]normalLevel{{12, 26}, {21, 28}, {29, 30}, {35, 30}}},
	{28, 28, 1706, 0x1afab, [4]normalLevel{{12, 28}, {23, 28}, {34, 28}, {37, 30}}},
	{32, 28, 1828, 0x1b08e, [4]normalLevel{{12, 30}, {25, 28}, {34, 30}, {40, 30}}},
	{24, 24, 1921, 0x1cc1a, [4]normalLevel{{13, 30}, {26, 28}, {35, 30}, {42, 30}}},
	{28, 24, 2051, 0x1d33f, [4]normalLevel{{14, 30}, {28, 28}, {38, 30}, {45, 30}}},
	{24, 26, 2185, 0x1ed75, [4]normalLevel{{15, 30}, {29, 28}, {40, 30}, {48, 30}}},
	{28, 26, 2323, 0x1f250, [4]normalLevel{{16, 30}, {31, 28}, {43, 30}, {51, 30}}},
	{32, 26, 2465, 0x209d5, [4]normalLevel{{17, 30}, {33, 28}, {45, 30}, {54, 30}}},
	{28, 28, 2611, 0x216f0, [4]normalLevel{{18, 30}, {35, 28}, {48, 30}, {57, 30}}},
	{32, 28, 2761, 0x228ba, [4]normalLevel{{19, 30}, {37, 28}, {51, 30}, {60, 30}}},
	{28, 24, 2876, 0x2379f, [4]normalLevel{{19, 30}, {38, 28}, {53, 30}, {63, 30}}},
	{22, 26, 3034, 0x24b0b, [4]normalLevel{{20, 30}, {40, 28}, {56, 30}, {66, 30}}},
	{26, 26, 3196, 0x2542e, [4]normalLevel{{21, 30}, {43, 28}, {59, 30}, {70, 30}}},
	{30, 26, 3362, 0x26a64, [4]normalLevel{{22, 30}, {45, 28}, {62, 30}, {74, 30}}},
	{24, 28, 3532, 0x27541, [4]normalLevel{{24, 30}, {47, 28}, {65, 30}, {77, 30}}},
	{28, 28, 3706, 0x28c69, [4]normalLevel{{25, 30}, {49, 28}, {68, 30}, {81, 30}}},
}

// DataBytes returns the number of data codewords (excluding EC
// parity) that a symbol at (v, l) can carry, or ok=false if the
// combination is unsupported.
func DataBytes(v Version, l EcLevel) (n int, ok bool) {
	if l < L || l > H {
		return 0, false
	}
	if v.micro {
		if !v.valid() {
			return 0, false
		}
		bits, ok := microDataBits(v, l)
		if !ok {
			return 0, false
		}
		return bits / 8, true // only exact for even Micro versions; callers needing
		// bit-exact budgets should use microDataBits directly.
	}
	if !v.valid() {
		return 0, false
	}
	vt := &normalTab[v.n]
	lev := &vt.level[l]
	if lev.nblock == 0 {
		return 0, false
	}
	return vt.bytes - lev.nblock*lev.check, true
}

// formatBCH computes the 15-bit BCH(15,5) codeword for a 5-bit format
// data value, using the QR Code format generator polynomial 0x537.
func formatBCH(data uint32) uint32 {
	rem := data << 10
	for i := 14; i >= 10; i-- {
		if rem&(1<<uint(i)) != 0 {
			rem ^= 0x537 << uint(i-10)
		}
	}
	return (data << 10) | rem
}

const (
	normalFormatXor = 0x5412
	microFormatXor  = 0x4445
)

// microSymbolNumber maps (version, level) to the 3-bit "symbol number"
// field ISO/IEC 18004 Table 12 packs into Micro QR's format
// information, identifying which of the eight legal Micro
// (version, level) combinations is in use.
func microSymbolNumber(v Version, l EcLevel) uint32 {
	switch {
	case v.n == 1:
		return 0
	case v.n == 2 && l == L:
		return 1
	case v.n == 2 && l == M:
		return 2
	case v.n == 3 && l == L:
		return 3
	case v.n == 3 && l == M:
		return 4
	case v.n == 4 && l == L:
		return 5
	case v.n == 4 && l == M:
		return 6
	case v.n == 4 && l == Q:
		return 7
	}
	panic("coding: invalid micro (version, level) for format info")
}
