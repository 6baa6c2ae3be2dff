/*
window.go - Query windows and series lifespan clipping

PURPOSE:
  Intersects a record's active lifespan [SeriesStart, SeriesEnd] with a
  caller-supplied query window [Start, End], producing the effective
  range the generator iterates over.

CLIP OUTCOMES:
  ClipEmpty     lifespan and window do not overlap; expand to nothing
  ClipBounded   both ends determinable; iterate month by month
  ClipUnbounded no upper bound anywhere (open-ended series queried with
                an open-ended window); the generator falls back to a
                single occurrence anchored at From

BOUND RULES:
  From = max(SeriesStart, Window.Start), taking whichever is present.
  To   = min(SeriesEnd, Window.End), taking whichever of the two is
         present and smaller; absent on both sides means unbounded.
  From > To reports empty.

SEE ALSO:
  - generator.go: consumes ClippedRange
*/
package recur

// =============================================================================
// WINDOW - Caller-supplied query range
// =============================================================================

// Window is the query range [Start, End]. Both bounds are inclusive;
// a nil bound means unbounded on that side.
type Window struct {
	Start *DayDate
	End   *DayDate
}

// NewWindow builds a fully bounded window.
func NewWindow(start, end DayDate) Window {
	return Window{Start: &start, End: &end}
}

// Contains reports whether the day satisfies both bounds. Absent
// bounds are always satisfied.
func (w Window) Contains(d DayDate) bool {
	if w.Start != nil && d.Before(*w.Start) {
		return false
	}
	if w.End != nil && d.After(*w.End) {
		return false
	}
	return true
}

// =============================================================================
// CLIPPING - Lifespan vs window intersection
// =============================================================================

type ClipOutcome int

const (
	// ClipEmpty: no overlap, nothing to generate.
	ClipEmpty ClipOutcome = iota
	// ClipBounded: iterate months from From to To inclusive.
	ClipBounded
	// ClipUnbounded: no upper bound could be determined; single
	// occurrence anchored at From.
	ClipUnbounded
)

// ClippedRange is the effective generation range for one record.
type ClippedRange struct {
	Outcome ClipOutcome
	From    DayDate
	To      DayDate // valid only when Outcome == ClipBounded
}

// Clip intersects the record's active lifespan with the query window.
func Clip(rec RecurringRecord, w Window) ClippedRange {
	from := rec.EffectiveStart()
	if w.Start != nil && w.Start.After(from) {
		from = *w.Start
	}

	var to *DayDate
	if rec.SeriesEnd != nil && !rec.SeriesEnd.IsZero() {
		to = rec.SeriesEnd
	}
	if w.End != nil {
		if to == nil || w.End.Before(*to) {
			to = w.End
		}
	}

	if to == nil {
		return ClippedRange{Outcome: ClipUnbounded, From: from}
	}
	if from.After(*to) {
		return ClippedRange{Outcome: ClipEmpty}
	}
	return ClippedRange{Outcome: ClipBounded, From: from, To: *to}
}
