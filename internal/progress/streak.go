package progress

import "time"

// NextStreak returns the streak length after activity on today, given the
// previous streak and the last day with activity.
//
// Activity on consecutive calendar days extends the streak; a second
// completion on the same day keeps it; any gap resets it to 1.
func NextStreak(prev int, last time.Time, hasLast bool, today time.Time) int {
	if !hasLast {
		return 1
	}
	d := DaysBetween(last, today)
	switch {
	case d == 0:
		if prev < 1 {
			return 1
		}
		return prev
	case d == 1:
		return prev + 1
	default:
		return 1
	}
}

// DaysBetween counts calendar days from a to b, reading each date in its
// own location.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
