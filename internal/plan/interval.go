package plan

import "time"

// Interval is a half-open [Start, End) span of wall-clock time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Minutes is the whole-minute length of the interval. Inverted intervals
// report zero.
func (iv Interval) Minutes() int {
	d := iv.End.Sub(iv.Start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func (iv Interval) overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// FreeSet is an ordered, disjoint set of free intervals within a day
// window. Busy blocks are subtracted in sequence and flexible chunks are
// claimed greedily from the front of the first gap that fits.
type FreeSet struct {
	gaps []Interval
}

// Window starts a free set covering a single interval. An empty or
// inverted window yields an empty set.
func Window(start, end time.Time) *FreeSet {
	fs := &FreeSet{}
	if end.After(start) {
		fs.gaps = []Interval{{Start: start, End: end}}
	}
	return fs
}

// Subtract removes the busy interval from every overlapping gap. A gap
// can shrink from either side or split in two; gap order is preserved.
func (fs *FreeSet) Subtract(busy Interval) {
	if !busy.End.After(busy.Start) {
		return
	}
	out := make([]Interval, 0, len(fs.gaps)+1)
	for _, gap := range fs.gaps {
		if !gap.overlaps(busy) {
			out = append(out, gap)
			continue
		}
		if busy.Start.After(gap.Start) {
			out = append(out, Interval{Start: gap.Start, End: busy.Start})
		}
		if busy.End.Before(gap.End) {
			out = append(out, Interval{Start: busy.End, End: gap.End})
		}
	}
	fs.gaps = out
}

// FirstFit returns the interval a chunk of the given length would occupy
// without modifying the set.
func (fs *FreeSet) FirstFit(minutes int) (Interval, bool) {
	if minutes <= 0 {
		return Interval{}, false
	}
	for _, gap := range fs.gaps {
		if gap.Minutes() >= minutes {
			return Interval{Start: gap.Start, End: gap.Start.Add(time.Duration(minutes) * time.Minute)}, true
		}
	}
	return Interval{}, false
}

// Claim carves a chunk of the given length from the front of the first
// gap that fits and returns the occupied interval.
func (fs *FreeSet) Claim(minutes int) (Interval, bool) {
	if minutes <= 0 {
		return Interval{}, false
	}
	for i, gap := range fs.gaps {
		if gap.Minutes() < minutes {
			continue
		}
		claimed := Interval{Start: gap.Start, End: gap.Start.Add(time.Duration(minutes) * time.Minute)}
		if claimed.End.Before(gap.End) {
			fs.gaps[i] = Interval{Start: claimed.End, End: gap.End}
		} else {
			fs.gaps = append(fs.gaps[:i], fs.gaps[i+1:]...)
		}
		return claimed, true
	}
	return Interval{}, false
}

// TotalMinutes is the sum of all remaining gap lengths.
func (fs *FreeSet) TotalMinutes() int {
	total := 0
	for _, gap := range fs.gaps {
		total += gap.Minutes()
	}
	return total
}

// Intervals returns a copy of the remaining gaps in order.
func (fs *FreeSet) Intervals() []Interval {
	return append([]Interval(nil), fs.gaps...)
}
