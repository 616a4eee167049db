package billing

import (
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// Config is a card's billing configuration after fallbacks are applied.
type Config struct {
	DueDay     int // 1–31, day each month the invoice is due
	ClosingDay int // 1–31, day each month the cycle closes
}

// ConfigFor extracts the billing configuration from a card.
//
// ok is false when the card has no usable due day, in which case callers must
// fall back to plain calendar-month treatment — that is the degraded mode for
// legacy records, not an error. A missing closing day defaults to ten days
// before the due day, clamped to 1.
func ConfigFor(card *domain.Card) (Config, bool) {
	if card == nil || card.DueDay < 1 || card.DueDay > 31 {
		return Config{}, false
	}
	closing := card.ClosingDay
	if closing < 1 || closing > 31 {
		closing = card.DueDay - 10
		if closing < 1 {
			closing = 1
		}
	}
	return Config{DueDay: card.DueDay, ClosingDay: closing}, true
}

// dueShift is the number of months between the month a cycle closes and the
// month its invoice is due. When the closing day falls on or after the due
// day, the invoice cannot be due in the closing month — payment slips to the
// following month. Both ResolveCycle and AccountingDate derive their
// month arithmetic from this single function.
func (c Config) dueShift() int {
	if c.ClosingDay >= c.DueDay {
		return 1
	}
	return 0
}

// DueMonthForCycleEnd returns the year/month the invoice for a cycle closing
// in (year, month) is due.
func (c Config) DueMonthForCycleEnd(year int, month time.Month) (int, time.Month) {
	return addMonths(year, month, c.dueShift())
}

// Cycle is one billing cycle: a closed interval [Start, End].
// Start is at 00:00:00 local time, End at the last nanosecond of its day, so
// consecutive cycles tile the timeline with no gap and no overlap.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls within the cycle, inclusive.
func (cy Cycle) Contains(t time.Time) bool {
	return !t.Before(cy.Start) && !t.After(cy.End)
}

// ResolveCycle computes the billing cycle whose invoice is due in
// (year, month) for the given card.
//
// Cards without a due day get the plain calendar month. Out-of-range closing
// days (day 31 in a 30-day month) clamp to the month's last day rather than
// overflowing into the next month.
func ResolveCycle(card *domain.Card, year int, month time.Month) Cycle {
	cfg, ok := ConfigFor(card)
	if !ok {
		return calendarMonth(year, month)
	}

	// The cycle closes dueShift months before the due month.
	endYear, endMonth := addMonths(year, month, -cfg.dueShift())
	end := clampedDay(endYear, endMonth, cfg.ClosingDay)

	// Start is the day after the previous cycle's close.
	prevYear, prevMonth := addMonths(endYear, endMonth, -1)
	start := clampedDay(prevYear, prevMonth, cfg.ClosingDay).AddDate(0, 0, 1)

	return Cycle{Start: start, End: endOfDay(end)}
}

// DueDate returns the calendar date the invoice due in (year, month) must be
// paid. For cards without billing configuration it degrades to the last day
// of the month, matching the calendar-month cycle fallback.
func DueDate(card *domain.Card, year int, month time.Month) time.Time {
	cfg, ok := ConfigFor(card)
	if !ok {
		return clampedDay(year, month, 31)
	}
	return clampedDay(year, month, cfg.DueDay)
}

// calendarMonth is the degraded cycle for cards with no billing config:
// first day 00:00:00 through last day 23:59:59.999999999.
func calendarMonth(year int, month time.Month) Cycle {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Cycle{Start: start, End: endOfDay(clampedDay(year, month, 31))}
}

// clampedDay builds a local-midnight date in (year, month), clamping day to
// the month's actual length.
func clampedDay(year int, month time.Month, day int) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// addMonths shifts (year, month) by delta months, normalizing year overflow.
func addMonths(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
