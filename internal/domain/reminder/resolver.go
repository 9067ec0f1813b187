package reminder

import "time"

// Occurrence is one (reminder, time) pair: a single instance of a recurring
// reminder firing on one day.
type Occurrence struct {
	Reminder *Reminder `json:"reminder"`
	Time     string    `json:"time"`
}

// Classification partitions a reminder's scheduled times for one day. The
// three buckets are disjoint and together cover every scheduled time.
type Classification struct {
	Completed []Occurrence `json:"completed"`
	Due       []Occurrence `json:"due"`
	Upcoming  []Occurrence `json:"upcoming"`
}

// Eligible reports whether a reminder participates in the daily view on the
// given date: it must be active, started, and not past its end date.
// Ineligible reminders are excluded from classification entirely.
func Eligible(r *Reminder, date string) bool {
	if !r.Active {
		return false
	}
	if r.StartDate.Format(DateLayout) > date {
		return false
	}
	if r.EndDate != nil && r.EndDate.Format(DateLayout) < date {
		return false
	}
	return true
}

// Classify assigns each scheduled time of a reminder to exactly one bucket
// for the given date and wall-clock minute: completed if acknowledged that
// day, due if its minute has arrived, upcoming otherwise. It is a pure
// function of persisted state and safe to call on every read.
//
// A time equal to the current minute counts as due, matching the notifier,
// which fires the moment the minute arrives.
func Classify(r *Reminder, date, now string) Classification {
	entry := r.CompletionFor(date)

	var c Classification
	if entry != nil {
		// Completed follows completion insertion order, filtered to times the
		// schedule actually contains.
		for _, ct := range entry.Times {
			if scheduledContains(r.ScheduledTimes, ct.Time) {
				c.Completed = append(c.Completed, Occurrence{Reminder: r, Time: ct.Time})
			}
		}
	}
	for _, t := range r.ScheduledTimes {
		if entry.Has(t) {
			continue
		}
		if t <= now {
			c.Due = append(c.Due, Occurrence{Reminder: r, Time: t})
		} else {
			c.Upcoming = append(c.Upcoming, Occurrence{Reminder: r, Time: t})
		}
	}
	return c
}

// DaySchedule is the merged classification of all of a patient's eligible
// reminders for one day.
type DaySchedule struct {
	Date      string       `json:"date"`
	Completed []Occurrence `json:"completed"`
	Due       []Occurrence `json:"due"`
	Upcoming  []Occurrence `json:"upcoming"`
}

// BuildDaySchedule applies the eligibility gate and classifies every
// surviving reminder at the given instant. The instant is expected to
// already be in the service's pinned location.
func BuildDaySchedule(reminders []*Reminder, at time.Time) *DaySchedule {
	date := at.Format(DateLayout)
	now := at.Format(TimeLayout)

	sched := &DaySchedule{Date: date}
	for _, r := range reminders {
		if !Eligible(r, date) {
			continue
		}
		c := Classify(r, date, now)
		sched.Completed = append(sched.Completed, c.Completed...)
		sched.Due = append(sched.Due, c.Due...)
		sched.Upcoming = append(sched.Upcoming, c.Upcoming...)
	}
	return sched
}

func scheduledContains(times []string, t string) bool {
	for _, s := range times {
		if s == t {
			return true
		}
	}
	return false
}
