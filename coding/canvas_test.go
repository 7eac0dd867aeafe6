package coding

import (
	"strings"
	"testing"
)

// debugString renders g as a human-readable grid, '#' for dark and '.'
// for light, one row per line with no quiet zone — a test-only helper
// so Annex I reference vectors can be asserted as literal strings, the
// way the reference implementation's own to_debug_str does.
func debugString(g *Grid) string {
	var b strings.Builder
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.Dark(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y+1 < g.Size {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func encodeForTest(t *testing.T, data []byte, v Version, l EcLevel) *Grid {
	t.Helper()
	bits, err := NewBits(v)
	if err != nil {
		t.Fatalf("NewBits(%v): %v", v, err)
	}
	if err := AppendOptimalData(bits, data); err != nil {
		t.Fatalf("AppendOptimalData: %v", err)
	}
	if err := bits.PushTerminator(l); err != nil {
		t.Fatalf("PushTerminator: %v", err)
	}
	dataCodewords, _ := bits.IntoBytes()
	codewords, err := ECEncode(v, l, dataCodewords)
	if err != nil {
		t.Fatalf("ECEncode: %v", err)
	}
	lay, err := NewLayout(v, l)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	grid, _ := BestMask(lay, codewords)
	return grid
}

// TestAnnexIVersion1M reproduces ISO/IEC 18004 Annex I's worked example:
// encoding "01234567" at Normal version 1, level M.
func TestAnnexIVersion1M(t *testing.T) {
	want := strings.Join([]string{
		"#######..#.##.#######",
		"#.....#..####.#.....#",
		"#.###.#.#.....#.###.#",
		"#.###.#.##....#.###.#",
		"#.###.#.#.###.#.###.#",
		"#.....#.#...#.#.....#",
		"#######.#.#.#.#######",
		"........#..##........",
		"#.#####..#..#.#####..",
		"...#.#.##.#.#..#.##..",
		"..#...##.#.#.#..#####",
		"....#....#.....####..",
		"...######..#.#..#....",
		"........#.#####..##..",
		"#######..##.#.##.....",
		"#.....#.#.#####...#.#",
		"#.###.#.#...#..#.##..",
		"#.###.#.##..#..#.....",
		"#.###.#.#.##.#..#.#..",
		"#.....#........##.##.",
		"#######.####.#..#.#..",
	}, "\n")

	grid := encodeForTest(t, []byte("01234567"), Normal(1), M)
	if grid.Size != 21 {
		t.Fatalf("Size = %d, want 21", grid.Size)
	}
	if got := debugString(grid); got != want {
		t.Errorf("grid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestAnnexIMicroVersion2L reproduces ISO/IEC 18004 Annex I's Micro QR
// worked example: encoding "01234567" at Micro version 2, level L.
func TestAnnexIMicroVersion2L(t *testing.T) {
	want := strings.Join([]string{
		"#######.#.#.#",
		"#.....#.###.#",
		"#.###.#..##.#",
		"#.###.#..####",
		"#.###.#.###..",
		"#.....#.#...#",
		"#######..####",
		".........##..",
		"##.#....#...#",
		".##.#.#.#.#.#",
		"###..#######.",
		"...#.#....##.",
		"###.#..##.###",
	}, "\n")

	grid := encodeForTest(t, []byte("01234567"), MicroVersion(2), L)
	if grid.Size != 13 {
		t.Fatalf("Size = %d, want 13", grid.Size)
	}
	if got := debugString(grid); got != want {
		t.Errorf("grid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestFunctionalPatternsAreStable checks, at level L for several Normal
// and Micro versions, that the top-left finder module (0,0) reports as
// functional, and that the functional-module count is nonzero and below
// the symbol's width squared.
func TestFunctionalPatternsAreStable(t *testing.T) {
	for _, v := range []Version{Normal(1), Normal(7), Normal(21), Normal(40), MicroVersion(1), MicroVersion(4)} {
		lay, err := NewLayout(v, L)
		if err != nil {
			t.Fatalf("NewLayout(%v, L): %v", v, err)
		}
		siz := v.Width()
		if !lay.IsFunctional(0, 0) {
			t.Errorf("%v: (0,0) finder module not functional", v)
		}
		count := 0
		for y := 0; y < siz; y++ {
			for x := 0; x < siz; x++ {
				if lay.IsFunctional(x, y) {
					count++
				}
			}
		}
		if count == 0 || count >= siz*siz {
			t.Errorf("%v: functional module count %d out of expected range for %dx%d grid", v, count, siz, siz)
		}
	}
}

// TestEveryNonFunctionalModuleIsAssignedExactlyOnce checks that
// NewLayout's zig-zag sweep visits every data/check module exactly
// once: their codeword-bit offsets must form a contiguous 0..n-1
// permutation with no repeats. Remainder (roleExtra) modules are
// excluded: they carry no codeword offset (Render masks them but never
// reads a bit for them), so several may legitimately share offset 0.
func TestEveryNonFunctionalModuleIsAssignedExactlyOnce(t *testing.T) {
	for _, v := range []Version{Normal(1), Normal(7), MicroVersion(2), MicroVersion(4)} {
		lay, err := NewLayout(v, L)
		if err != nil {
			t.Fatalf("NewLayout(%v, L): %v", v, err)
		}
		siz := v.Width()
		seen := map[int]bool{}
		n := 0
		for y := 0; y < siz; y++ {
			for x := 0; x < siz; x++ {
				role := lay.Pixel[y][x].role()
				if role != roleData && role != roleCheck {
					continue
				}
				off := lay.Pixel[y][x].offset()
				if seen[off] {
					t.Errorf("%v: offset %d assigned more than once", v, off)
				}
				seen[off] = true
				n++
			}
		}
		for i := 0; i < n; i++ {
			if !seen[i] {
				t.Errorf("%v: offset %d never assigned (of %d total)", v, i, n)
			}
		}
	}
}

// TestRemainderBitsAreMaskedNotCodeword checks that Normal version 2
// (which ISO/IEC 18004 gives 7 remainder bits) assigns roleExtra, the
// role Render masks without reading a codeword bit, to exactly that
// many modules.
func TestRemainderBitsAreMaskedNotCodeword(t *testing.T) {
	lay, err := NewLayout(Normal(2), L)
	if err != nil {
		t.Fatal(err)
	}
	siz := Normal(2).Width()
	extra := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if lay.Pixel[y][x].role() == roleExtra {
				extra++
			}
		}
	}
	if extra != 7 {
		t.Errorf("roleExtra count = %d, want 7 remainder bits for Normal version 2", extra)
	}
}
