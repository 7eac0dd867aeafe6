// Package gf256 implements arithmetic in GF(256), the Galois field used
// by QR Code's Reed-Solomon error correction.
package gf256

// A Field represents an instance of GF(256) defined by a given
// primitive polynomial and generator (primitive element). QR Code uses
// the field with primitive polynomial 0x11d and generator 2.
type Field struct {
	log [256]int // log[0] is unused; log[x] is the exponent e with generator^e == x
	exp [255]int // exp[e] = generator^e
}

// NewField returns the field GF(256) with the given primitive
// polynomial and generator.
func NewField(poly, generator int) *Field {
	f := new(Field)
	x := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = x
		f.log[x] = i
		x *= generator
		if x >= 256 {
			x ^= poly
		}
	}
	return f
}

// Add returns x+y in the field. Addition (and subtraction) in GF(2^n)
// is bitwise XOR.
func (f *Field) Add(x, y int) int {
	return x ^ y
}

// Exp returns generator^e, reducing e modulo 255 (the order of the
// field's multiplicative group).
func (f *Field) Exp(e int) int {
	e %= 255
	if e < 0 {
		e += 255
	}
	return f.exp[e]
}

// Mul returns x*y in the field.
func (f *Field) Mul(x, y int) int {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[(f.log[x]+f.log[y])%255]
}

// An RSEncoder computes Reed-Solomon error-correction codewords over a
// Field, for a fixed number of check bytes. QR Code builds one
// RSEncoder per distinct check-byte count appearing in a symbol's
// block table.
type RSEncoder struct {
	f   *Field
	gen []int // monic generator polynomial, highest degree first, degree == len(check bytes)
}

// NewRSEncoder returns an encoder that computes n check bytes using the
// generator polynomial prod_{i=0}^{n-1} (x - generator^i) over f.
func NewRSEncoder(f *Field, n int) *RSEncoder {
	gen := []int{1}
	for i := 0; i < n; i++ {
		// gen *= (x - f.Exp(i)); subtraction is XOR, so this is (x + f.Exp(i)).
		root := f.Exp(i)
		next := make([]int, len(gen)+1)
		for j, c := range gen {
			next[j] = f.Add(next[j], c)
			next[j+1] = f.Add(next[j+1], f.Mul(c, root))
		}
		gen = next
	}
	return &RSEncoder{f: f, gen: gen}
}

// ECC computes the error-correction codewords for data and stores them
// in check, which must have length equal to the encoder's check-byte
// count. check holds the remainder of the message polynomial (data,
// zero-padded by len(check) low-order coefficients) divided by the
// generator polynomial — the standard systematic Reed-Solomon
// construction used by QR Code.
func (e *RSEncoder) ECC(data []byte, check []byte) {
	n := len(check)
	if n != len(e.gen)-1 {
		panic("gf256: check length does not match encoder")
	}
	rem := make([]int, len(data)+n)
	for i, d := range data {
		rem[i] = int(d)
	}
	for i := 0; i < len(data); i++ {
		coef := rem[i]
		if coef == 0 {
			continue
		}
		for j, g := range e.gen {
			rem[i+j] = e.f.Add(rem[i+j], e.f.Mul(g, coef))
		}
	}
	for i, v := range rem[len(data):] {
		check[i] = byte(v)
	}
}
