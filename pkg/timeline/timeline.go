// Package timeline computes the absolute start/end offset of every scene
// within the full recording. Entries are contiguous: each scene occupies
// its audio duration plus a fixed pad of trailing silence.
package timeline

// Entry is one scene's window in seconds. Start of entry i equals End of
// entry i-1; the first entry starts at 0.
type Entry struct {
	Start    float64
	End      float64
	Duration float64
}

// Build accumulates per-scene durations (plus pad each) into a timeline.
// An empty duration list yields an empty timeline; callers reject zero-scene
// renders before getting here.
func Build(durations []float64, padSeconds float64) []Entry {
	if padSeconds < 0 {
		padSeconds = 0
	}

	entries := make([]Entry, 0, len(durations))
	cursor := 0.0
	for _, d := range durations {
		if d < 0 {
			d = 0
		}
		e := Entry{
			Start:    cursor,
			End:      cursor + d + padSeconds,
			Duration: d + padSeconds,
		}
		entries = append(entries, e)
		cursor = e.End
	}
	return entries
}

// Total returns the end of the last entry, or 0 for an empty timeline.
func Total(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].End
}

// At returns the index of the entry covering the elapsed time. Once elapsed
// runs past the final entry the last index is returned, so a caller always
// has a scene to paint.
func At(entries []Entry, elapsed float64) int {
	for i, e := range entries {
		if elapsed < e.End {
			return i
		}
	}
	return len(entries) - 1
}
