package reminder

import (
	"sync"
	"time"
)

// Alert is one user-facing notification for a reminder occurrence.
type Alert struct {
	ReminderID string   `json:"reminder_id"`
	Label      string   `json:"label"`
	Category   Category `json:"category"`
	Time       string   `json:"time"`
	Date       string   `json:"date"`
}

// AlertSink receives alerts the notifier decides to fire. Implementations
// render them however the client platform allows (OS notification, toast,
// log line).
type AlertSink interface {
	Deliver(a Alert)
}

// AlertSinkFunc adapts a function to AlertSink.
type AlertSinkFunc func(a Alert)

func (f AlertSinkFunc) Deliver(a Alert) { f(a) }

// Permission gates delivery on user consent, mirroring platform notification
// permission models where consent must be asked once and can be revoked.
type Permission interface {
	// Request asks the user for permission and reports whether it was granted.
	Request() bool
	Granted() bool
}

// MemoryPermission is an in-process Permission with an explicit grant switch.
type MemoryPermission struct {
	mu      sync.Mutex
	granted bool
}

func (p *MemoryPermission) Request() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

func (p *MemoryPermission) Granted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

func (p *MemoryPermission) Grant() {
	p.mu.Lock()
	p.granted = true
	p.mu.Unlock()
}

func (p *MemoryPermission) Revoke() {
	p.mu.Lock()
	p.granted = false
	p.mu.Unlock()
}

// Notifier fires an alert when a reminder's scheduled minute arrives and the
// time has not been completed today. Each (reminder, date, time) fires at
// most once per Notifier lifetime regardless of how often Check runs.
type Notifier struct {
	sink AlertSink
	perm Permission
	now  func() time.Time

	mu        sync.Mutex
	delivered map[string]struct{}
}

func NewNotifier(sink AlertSink, perm Permission) *Notifier {
	return &Notifier{
		sink:      sink,
		perm:      perm,
		now:       time.Now,
		delivered: make(map[string]struct{}),
	}
}

func (n *Notifier) SetClock(now func() time.Time) {
	n.now = now
}

// Check scans the reminders once against the current minute. Inactive
// reminders and times already completed today never fire. Without permission
// nothing is delivered, and nothing is remembered either, so granting
// permission later lets the current minute still fire.
func (n *Notifier) Check(reminders []*Reminder) {
	now := n.now()
	date := now.Format(DateLayout)
	minute := now.Format(TimeLayout)

	for _, r := range reminders {
		if !r.Active {
			continue
		}
		entry := r.CompletionFor(date)
		for _, t := range r.ScheduledTimes {
			if t != minute || entry.Has(t) {
				continue
			}
			if !n.perm.Granted() {
				continue
			}
			key := r.ID.String() + "|" + date + "|" + t
			n.mu.Lock()
			_, seen := n.delivered[key]
			if !seen {
				n.delivered[key] = struct{}{}
			}
			n.mu.Unlock()
			if seen {
				continue
			}
			n.sink.Deliver(Alert{
				ReminderID: r.ID.String(),
				Label:      r.Label,
				Category:   r.Category,
				Time:       t,
				Date:       date,
			})
		}
	}
}

// Checker is a running periodic check loop.
type Checker struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Start checks the reminders immediately and then on every tick until Stop
// is called. The reminder slice is not copied; callers hand over ownership
// for the lifetime of the checker.
func (n *Notifier) Start(reminders []*Reminder, interval time.Duration) *Checker {
	c := &Checker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	n.Check(reminders)
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n.Check(reminders)
			case <-c.stop:
				return
			}
		}
	}()
	return c
}

// Stop halts the check loop and waits for it to exit. Safe to call more
// than once.
func (c *Checker) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
