package calendar

import (
	"fmt"
	"time"
)

// Week is a run of days ending on a Saturday, together with the days the
// schedule reads its times from.
//
// A week is sealed once its Saturday is seen and is never modified after that.
// In a partial first week Midweek, and Eve when start is Saturday, may fall
// before Days[0]; they are still the Wednesday and Friday of that week.
type Week struct {
	Label    string // "Oct 23 - Oct 29"
	Days     []Day
	Midweek  Day // Wednesday
	Eve      Day // Friday
	Terminal Day // Saturday
}

// weekScan is the partitioner state carried from one day to the next.
type weekScan struct {
	days    []Day
	midweek Day
	eve     Day
}

// observe folds one day into the scan. When d is a Saturday the in-progress
// week is sealed and returned along with a fresh scan.
func (s weekScan) observe(d Day) (weekScan, *Week) {
	switch d.Weekday() {
	case time.Sunday:
		s = weekScan{}
	case time.Wednesday:
		s.midweek = d
	case time.Friday:
		s.eve = d
	}

	s.days = append(s.days, d)

	if d.Weekday() != time.Saturday {
		return s, nil
	}
	return weekScan{}, s.seal(d)
}

func (s weekScan) seal(saturday Day) *Week {
	w := &Week{
		Label:    fmt.Sprintf("%s - %s", s.days[0].Short(), s.days[len(s.days)-1].Short()),
		Days:     s.days,
		Midweek:  s.midweek,
		Eve:      s.eve,
		Terminal: saturday,
	}

	// A partial first week can start after Wednesday or Friday.
	if w.Midweek.IsZero() {
		w.Midweek = saturday.AddDays(-3)
	}
	if w.Eve.IsZero() {
		w.Eve = saturday.AddDays(-1)
	}

	return w
}

// Partition walks start through end inclusive and groups the days into weeks
// that end on Saturday.
//
// A start that is not a Sunday produces a first week running from start to
// the first Saturday. Days after the last Saturday never form a week and are
// dropped. If end is before start the result is empty.
func Partition(start, end Day) []Week {
	var weeks []Week

	var scan weekScan
	for d := start; !d.After(end); d = d.AddDays(1) {
		var sealed *Week
		scan, sealed = scan.observe(d)
		if sealed != nil {
			weeks = append(weeks, *sealed)
		}
	}

	return weeks
}
