package music

import "fmt"

// ParityMismatch names one structural disagreement between an XM and
// an IT rendering of the same tracker params.
type ParityMismatch struct {
	Category string
	Message  string
}

// ParityReport is the result of comparing two format summaries.
type ParityReport struct {
	IsParity  bool
	Mismatches []ParityMismatch
}

// CheckParity compares xm and it's structural summaries. Channel
// counts are deliberately excluded from comparison: IT always reports
// 64 channel slots in its header regardless of the song's actual
// channel usage, so comparing it against XM's literal channel count
// would always mismatch (spec §4.11).
func CheckParity(xm, it FormatSummary) ParityReport {
	var mismatches []ParityMismatch

	if xm.InstrumentCount != it.InstrumentCount {
		mismatches = append(mismatches, ParityMismatch{"instrument_count",
			fmt.Sprintf("xm=%d it=%d", xm.InstrumentCount, it.InstrumentCount)})
	}
	if xm.SampleCount != it.SampleCount {
		mismatches = append(mismatches, ParityMismatch{"sample_count",
			fmt.Sprintf("xm=%d it=%d", xm.SampleCount, it.SampleCount)})
	}
	if xm.PatternCount != it.PatternCount {
		mismatches = append(mismatches, ParityMismatch{"pattern_count",
			fmt.Sprintf("xm=%d it=%d", xm.PatternCount, it.PatternCount)})
	}
	if !intSlicesEqual(xm.PatternRows, it.PatternRows) {
		mismatches = append(mismatches, ParityMismatch{"pattern_rows",
			fmt.Sprintf("xm=%v it=%v", xm.PatternRows, it.PatternRows)})
	}
	if xm.Tempo != it.Tempo {
		mismatches = append(mismatches, ParityMismatch{"tempo",
			fmt.Sprintf("xm=%d it=%d", xm.Tempo, it.Tempo)})
	}
	if xm.BPM != it.BPM {
		mismatches = append(mismatches, ParityMismatch{"bpm",
			fmt.Sprintf("xm=%d it=%d", xm.BPM, it.BPM)})
	}
	if xm.OrderLength != it.OrderLength {
		mismatches = append(mismatches, ParityMismatch{"order_length",
			fmt.Sprintf("xm=%d it=%d", xm.OrderLength, it.OrderLength)})
	}

	return ParityReport{IsParity: len(mismatches) == 0, Mismatches: mismatches}
}

// CheckParityDetailed additionally compares order table entries after
// filtering IT's 254 (skip) / 255 (end) sentinel bytes out of both
// sides.
func CheckParityDetailed(xm, it FormatSummary) ParityReport {
	report := CheckParity(xm, it)

	xmFiltered := filterOrderSentinels(xm.OrderEntries)
	itFiltered := filterOrderSentinels(it.OrderEntries)
	if !intSlicesEqual(xmFiltered, itFiltered) {
		report.Mismatches = append(report.Mismatches, ParityMismatch{"order_entries",
			fmt.Sprintf("xm=%v it=%v", xmFiltered, itFiltered)})
	}
	report.IsParity = len(report.Mismatches) == 0
	return report
}

func filterOrderSentinels(entries []int) []int {
	var out []int
	for _, e := range entries {
		if e == 254 || e == 255 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func intSlicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
