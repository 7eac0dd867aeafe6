package qrencode

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkstray/qrencode/coding"
)

func gridString(sym *QrSymbol) string {
	w := sym.Width()
	var b strings.Builder
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if sym.At(x, y) == coding.Dark {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y+1 < w {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestEncodeWithVersionAnnexINormal1M(t *testing.T) {
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

	sym, err := EncodeWithVersion([]byte("01234567"), coding.Normal(1), coding.M)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Width() != 21 {
		t.Errorf("Width() = %d, want 21", sym.Width())
	}
	if got := gridString(sym); got != want {
		t.Errorf("grid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if got := len(sym.Modules()); got != 21*21 {
		t.Errorf("len(Modules()) = %d, want %d", got, 21*21)
	}
}

func TestEncodeWithVersionAnnexIMicro2L(t *testing.T) {
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

	sym, err := EncodeWithVersion([]byte("01234567"), coding.MicroVersion(2), coding.L)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Width() != 13 {
		t.Errorf("Width() = %d, want 13", sym.Width())
	}
	if got := gridString(sym); got != want {
		t.Errorf("grid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestFunctionalModulesMatchRoleRegardlessOfPayload checks invariant 3:
// stamping the same version/level with two different payloads leaves
// every functional module's IsFunctional classification unchanged.
func TestFunctionalModulesMatchRoleRegardlessOfPayload(t *testing.T) {
	a, err := EncodeWithVersion([]byte("HELLO WORLD"), coding.Normal(2), coding.Q)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeWithVersion([]byte("GOODBYE"), coding.Normal(2), coding.Q)
	if err != nil {
		t.Fatal(err)
	}
	w := a.Width()
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if a.IsFunctional(x, y) != b.IsFunctional(x, y) {
				t.Fatalf("IsFunctional(%d,%d) differs between payloads", x, y)
			}
		}
	}
}

func TestEncodeAutoVersionPicksSmallestNormalVersion(t *testing.T) {
	sym, err := Encode([]byte("https://rust-lang.org/"), coding.M)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Version().IsMicro() {
		t.Fatalf("Version() = %v, want a Normal version", sym.Version())
	}
	// Capacity must be the smallest Normal version at M whose byte-mode
	// budget accommodates this 22-character payload plus headers; any
	// smaller version must fail with DataTooLong.
	v := sym.Version()
	if v.Number() > 1 {
		smaller := coding.Normal(v.Number() - 1)
		if _, err := EncodeWithVersion([]byte("https://rust-lang.org/"), smaller, coding.M); err == nil {
			t.Errorf("expected version %v to be too small for this payload", smaller)
		}
	}
}

func TestEncodeDataTooLong(t *testing.T) {
	data := make([]byte, 8000)
	for i := range data {
		data[i] = 'a'
	}
	_, err := Encode(data, coding.M)
	if !errors.Is(err, coding.ErrDataTooLong) {
		t.Errorf("err = %v, want ErrDataTooLong", err)
	}
}

func TestEncodeWithVersionMicro1RejectsNonLLevel(t *testing.T) {
	_, err := EncodeWithVersion([]byte("123"), coding.MicroVersion(1), coding.M)
	if !errors.Is(err, coding.ErrInvalidVersion) {
		t.Errorf("err = %v, want ErrInvalidVersion", err)
	}
}

func TestMaxAllowedErrorsNormal1M(t *testing.T) {
	n, ok := MaxAllowedErrors(coding.Normal(1), coding.M)
	if !ok || n != 5 {
		t.Errorf("MaxAllowedErrors(Normal(1), M) = (%d, %v), want (5, true)", n, ok)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode([]byte("determinism check"), coding.Q)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode([]byte("determinism check"), coding.Q)
	if err != nil {
		t.Fatal(err)
	}
	if gridString(a) != gridString(b) {
		t.Error("Encode is not deterministic for identical input")
	}
}

func TestEmptyPayload(t *testing.T) {
	sym, err := EncodeWithVersion(nil, coding.Normal(1), coding.L)
	if err != nil {
		t.Fatal(err)
	}
	if sym.Width() != 21 {
		t.Errorf("Width() = %d, want 21", sym.Width())
	}
}
