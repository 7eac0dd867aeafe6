package coding

// This file implements automatic segmentation: splitting an arbitrary
// byte payload into a sequence of same-mode runs and packing each into
// the tightest-fitting combination of Numeric, Alphanumeric, Byte and
// Kanji segments. It never transcodes; Kanji runs are recognized
// directly as Shift-JIS lead/trail byte pairs already present in the
// input, matching the restriction that automatic segmentation only
// ever sees the bytes it was given.

// segment is one same-mode run produced by the optimizer. bytes holds
// the segment's literal payload: for Kanji, the raw Shift-JIS byte
// pairs (len(bytes) is always even); for the other three modes, the
// characters themselves.
type segment struct {
	mode  Mode
	bytes []byte
}

// isShiftJISLead reports whether b can open a two-byte Shift-JIS code
// point (ISO/IEC 18004 Kanji mode only addresses codes in the two
// JIS X 0208 rows this range covers).
func isShiftJISLead(b byte) bool {
	return (b >= 0x81 && b <= 0x9f) || (b >= 0xe0 && b <= 0xfc)
}

func isShiftJISTrail(b byte) bool {
	return b >= 0x40 && b <= 0xfc && b != 0x7f
}

// classifyRuns splits data into minimal-mode single-character runs: a
// greedy left-to-right scan that pairs off Kanji code units first
// (since their lead bytes never collide with ASCII categories), then
// classifies every other byte individually as Numeric, Alphanumeric or
// Byte. Adjacent bytes of the same mode are coalesced into one run.
// Kanji is skipped entirely at versions that don't support it (M1 and
// M2, whose Micro count-bit rows have no Kanji width); such bytes fall
// through to Byte classification.
func classifyRuns(data []byte, v Version) []segment {
	var runs []segment
	allowKanji := modeSupported(Kanji, v)
	i := 0
	for i < len(data) {
		if allowKanji && isShiftJISLead(data[i]) && i+1 < len(data) && isShiftJISTrail(data[i+1]) {
			runs = appendByte2(runs, Kanji, data[i], data[i+1])
			i += 2
			continue
		}
		c := data[i]
		switch {
		case c >= '0' && c <= '9':
			runs = appendByte1(runs, Numeric, c)
		case alphanumericIndex[c] >= 0:
			runs = appendByte1(runs, Alphanumeric, c)
		default:
			runs = appendByte1(runs, Byte, c)
		}
		i++
	}
	return runs
}

func appendByte1(runs []segment, m Mode, b byte) []segment {
	if n := len(runs); n > 0 && runs[n-1].mode == m {
		runs[n-1].bytes = append(runs[n-1].bytes, b)
		return runs
	}
	return append(runs, segment{mode: m, bytes: []byte{b}})
}

func appendByte2(runs []segment, m Mode, b0, b1 byte) []segment {
	if n := len(runs); n > 0 && runs[n-1].mode == m {
		runs[n-1].bytes = append(runs[n-1].bytes, b0, b1)
		return runs
	}
	return append(runs, segment{mode: m, bytes: []byte{b0, b1}})
}

// mergeTarget returns the mode a run of mode a and a run of mode b
// would need if concatenated into a single segment: a and b widened to
// their least common superset. Numeric is a subset of Alphanumeric is
// a subset of Byte; Kanji's byte pairs can only safely rejoin another
// mode as Byte, since reinterpreting them as Alphanumeric or Numeric
// characters would be meaningless.
func mergeTarget(a, b Mode) Mode {
	if a == b {
		return a
	}
	if a == Kanji || b == Kanji {
		return Byte
	}
	rank := func(m Mode) int {
		switch m {
		case Numeric:
			return 0
		case Alphanumeric:
			return 1
		default:
			return 2
		}
	}
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// segmentUnits returns the character count a segment's data bit
// formula is parameterized on: the literal byte count for Numeric,
// Alphanumeric and Byte, or the Kanji code-unit count (half the byte
// count) for Kanji.
func segmentUnits(m Mode, nbytes int) int {
	if m == Kanji {
		return nbytes / 2
	}
	return nbytes
}

// segmentDataBits returns the number of data bits a run of n units in
// mode m occupies, not including its header.
func segmentDataBits(m Mode, n int) int {
	switch m {
	case Numeric:
		tail := [3]int{0, 4, 7}
		return 10*(n/3) + tail[n%3]
	case Alphanumeric:
		return 11*(n/2) + 6*(n%2)
	case Kanji:
		return 13 * n
	default:
		return 8 * n
	}
}

// segmentHeaderBits returns the mode-indicator plus character-count
// indicator width a segment in mode m costs at version v.
func segmentHeaderBits(m Mode, v Version) int {
	width := 4
	if v.micro {
		width = microModeIndicatorWidth[v.n-1]
	}
	return width + numCharCountBits(m, v)
}

func segmentCost(s segment, v Version) int {
	return segmentHeaderBits(s.mode, v) + segmentDataBits(s.mode, segmentUnits(s.mode, len(s.bytes)))
}

// mergeRuns repeatedly folds adjacent runs together whenever doing so
// costs no more than keeping them separate, until a full pass makes no
// further change. This is the standard greedy heuristic for minimal
// QR Code segmentation: optimal to within a header's worth of bits,
// since it never tries splitting a run that classifyRuns already
// joined, only merging across run boundaries.
func mergeRuns(runs []segment, v Version) []segment {
	for {
		changed := false
		out := runs[:0:0]
		i := 0
		for i < len(runs) {
			if i+1 == len(runs) {
				out = append(out, runs[i])
				i++
				continue
			}
			a, b := runs[i], runs[i+1]
			target := mergeTarget(a.mode, b.mode)
			merged := segment{mode: target, bytes: append(append([]byte{}, a.bytes...), b.bytes...)}
			separateCost := segmentCost(a, v) + segmentCost(b, v)
			mergedCost := segmentCost(merged, v)
			if mergedCost <= separateCost {
				out = append(out, merged)
				i += 2
				changed = true
				continue
			}
			out = append(out, a)
			i++
		}
		runs = out
		if !changed {
			return runs
		}
	}
}

// optimalSegments classifies and merges data into the segmentation
// this package's writer will use to minimize total bit length.
func optimalSegments(data []byte, v Version) []segment {
	return mergeRuns(classifyRuns(data, v), v)
}

// AppendOptimalData runs automatic segmentation over data and pushes
// the resulting header+payload segments onto b. It does not push a
// terminator; call PushTerminator afterward.
func AppendOptimalData(b *Bits, data []byte) error {
	for _, s := range optimalSegments(data, b.version) {
		n := segmentUnits(s.mode, len(s.bytes))
		if err := b.PushHeader(s.mode, n); err != nil {
			return err
		}
		var err error
		switch s.mode {
		case Numeric:
			err = b.PushNumericData(string(s.bytes))
		case Alphanumeric:
			err = b.PushAlphanumericData(string(s.bytes))
		case Kanji:
			err = b.pushKanjiPairs(s.bytes)
		default:
			err = b.PushByteData(s.bytes)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
