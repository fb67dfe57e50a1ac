package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Uptime tracks how long the simulation has been running, both in wall time
// and in simulated sols. Paused time counts toward neither.
type Uptime struct {
	mu        sync.Mutex
	now       func() time.Time
	running   time.Duration
	resumedAt time.Time
	paused    bool
	startTick uint64
}

// NewUptime starts a timer at tick.
func NewUptime(tick uint64) *Uptime {
	u := &Uptime{now: time.Now, startTick: tick}
	u.resumedAt = u.now()
	return u
}

// Pause stops the wall clock. Pausing twice is a no-op.
func (u *Uptime) Pause() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.paused {
		return
	}
	u.running += u.now().Sub(u.resumedAt)
	u.paused = true
}

// Resume restarts the wall clock.
func (u *Uptime) Resume() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.paused {
		return
	}
	u.resumedAt = u.now()
	u.paused = false
}

// Elapsed returns the running wall time.
func (u *Uptime) Elapsed() time.Duration {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.paused {
		return u.running
	}
	return u.running + u.now().Sub(u.resumedAt)
}

// Since returns the wall time at which the timer would have started had it
// never been paused, for relative formatting.
func (u *Uptime) Since() time.Time {
	return u.now().Add(-u.Elapsed())
}

// String formats wall uptime like "3 hours".
func (u *Uptime) String() string {
	return strings.TrimSpace(humanize.RelTime(u.Since(), u.now(), "", ""))
}

// Report describes wall and simulated uptime at tick.
func (u *Uptime) Report(tick uint64) string {
	sols := float64(tick-min(tick, u.startTick)) / TicksPerSol
	return fmt.Sprintf("up %s, %s sols simulated", u, humanize.CommafWithDigits(sols, 1))
}

// SetSpeedTracked sets e's speed and pauses or resumes u to match.
func (u *Uptime) SetSpeedTracked(e *Engine, speed float64) error {
	if err := e.SetSpeed(speed); err != nil {
		return err
	}
	if speed == 0 {
		u.Pause()
	} else {
		u.Resume()
	}
	return nil
}
