package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/teambition/rrule-go"
)

const MaxOccurrences = 366

var ErrTooManyOccurrences = fmt.Errorf("series longer than %d occurrences", MaxOccurrences)
var ErrUntilBeforeStart = errors.New("series ends before it starts")

// Expand returns the days a task repeating with t occurs on, starting at from
// and ending no later than until. RepeatTypeNone yields from alone.
func Expand(t model.RepeatType, from, until time.Time) ([]time.Time, error) {
	from = model.Day(from)
	if t == model.RepeatTypeNone || t == "" {
		return []time.Time{from}, nil
	}

	until = model.Day(until)
	if until.Before(from) {
		return nil, ErrUntilBeforeStart
	}

	rule, err := getRule(t, from, until)
	if err != nil {
		return nil, err
	}

	var days []time.Time
	next := rule.Iterator()
	for d, ok := next(); ok; d, ok = next() {
		if len(days) == MaxOccurrences {
			return nil, ErrTooManyOccurrences
		}
		days = append(days, model.Day(d))
	}

	return days, nil
}

func getRule(t model.RepeatType, from, until time.Time) (*rrule.RRule, error) {
	var freq rrule.Frequency
	var interval int

	switch t {
	case model.RepeatTypeEveryDay:
		freq = rrule.DAILY
		interval = 1
	case model.RepeatTypeEveryThreeDays:
		freq = rrule.DAILY
		interval = 3
	case model.RepeatTypeEveryWeek:
		freq = rrule.WEEKLY
		interval = 1
	case model.RepeatTypeEveryMonth:
		freq = rrule.MONTHLY
		interval = 1
	case model.RepeatTypeEveryYear:
		freq = rrule.YEARLY
		interval = 1
	default:
		return nil, fmt.Errorf("unknown repeat type: %v", t)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  from.UTC(),
		Until:    until.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating rule: %w", err)
	}

	return rule, nil
}
