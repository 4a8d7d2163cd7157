package calendar

import "github.com/kvnheller/caldr/internal/model"

// overlapping reports whether a conflicts with b. The predicate is not
// symmetric; callers check both argument orders, the way conflict gating in
// this package always does.
//
// When either event is all-day the comparison is on dates alone: a shared
// start date conflicts, and a's end date landing exactly on b's start date
// conflicts too (the closing day is occupied). When both events are timed
// the comparison is on instants: a shared start instant conflicts, but an
// event ending exactly when another begins does not. The boundary rules
// differ between the two cases on purpose.
func overlapping(a, b *model.Event) bool {
	if a.AllDay() || b.AllDay() {
		aStart, aEnd := a.StartDate, a.EndDate
		bStart, bEnd := b.StartDate, b.EndDate

		startsWithin := aStart.After(bStart) && aStart.Before(bEnd)
		endsWithin := aEnd.After(bStart) && aEnd.Before(bEnd)
		sameStart := aStart.Equal(bStart)
		endsOnStart := aEnd.Equal(bStart)

		return startsWithin || endsWithin || sameStart || endsOnStart
	}

	aStart, aEnd := a.StartInstant(), a.EndInstant()
	bStart, bEnd := b.StartInstant(), b.EndInstant()

	startsWithin := aStart.After(bStart) && aStart.Before(bEnd)
	endsWithin := aEnd.After(bStart) && aEnd.Before(bEnd)
	sameStart := aStart.Equal(bStart)

	return startsWithin || endsWithin || sameStart
}

// conflicts checks a pair in both orders.
func conflicts(a, b *model.Event) bool {
	return overlapping(a, b) || overlapping(b, a)
}
