// Package engine provides the tick-based simulation loop.
// One tick is one millisol of Mars time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TickSchedule defines when each layer runs relative to the tick counter.
const (
	TicksPerHour  = 41        // ~1 Earth hour
	TicksPerSol   = 1000      // 1 sol = 1000 msol
	TicksPerWeek  = 7000      // 7 sols
	TicksPerOrbit = 668000    // 668 sols, one Mars year
	pausedPoll    = 100 * time.Millisecond
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Interval time.Duration // Wall time of one tick at speed 1

	// Callbacks for each tick layer, populated during setup.
	OnTick  func(tick uint64) // Every msol
	OnHour  func(tick uint64) // Every 41 msol
	OnSol   func(tick uint64) // Every 1000 msol
	OnWeek  func(tick uint64) // Every 7 sols
	OnOrbit func(tick uint64) // Every 668 sols

	mu    sync.Mutex
	speed float64 // Multiplier: 1.0 = real-time, 0 = paused
}

// NewEngine creates an engine running ticksPerSecond ticks per wall second.
func NewEngine(ticksPerSecond int) *Engine {
	return &Engine{
		Interval: time.Second,
		speed:    float64(ticksPerSecond),
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. 0 pauses the loop.
func (e *Engine) SetSpeed(speed float64) error {
	if speed < 0 {
		return fmt.Errorf("speed must not be negative, got %v", speed)
	}
	e.mu.Lock()
	e.speed = speed
	e.mu.Unlock()
	slog.Info("engine speed changed", "speed", speed)
	return nil
}

// Run drives the loop until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed())
	defer func() { slog.Info("simulation engine stopped", "tick", e.Tick) }()

	for {
		speed := e.Speed()
		wait := pausedPoll
		if speed > 0 {
			start := time.Now()
			e.Step()
			wait = time.Duration(float64(e.Interval)/speed) - time.Since(start)
		}

		if wait <= 0 {
			// Running flat out; still honor cancellation between ticks.
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Advance runs n ticks without waiting.
func (e *Engine) Advance(n uint64) {
	for range n {
		e.Step()
	}
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	// Every msol: scheduling and missions.
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Every hour: markets, weather, kitchens.
	if e.Tick%TicksPerHour == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}

	// Every sol: life support, trade partners.
	if e.Tick%TicksPerSol == 0 && e.OnSol != nil {
		e.OnSol(e.Tick)
	}

	if e.Tick%TicksPerWeek == 0 && e.OnWeek != nil {
		e.OnWeek(e.Tick)
	}

	if e.Tick%TicksPerOrbit == 0 && e.OnOrbit != nil {
		e.OnOrbit(e.Tick)
	}
}

// MarsTime returns a human-readable Mars clock from a tick number, e.g.
// "Orbit 1 Sol 214 (Summer) 0532 msol".
func MarsTime(tick uint64) string {
	msol := tick % TicksPerSol
	totalSols := tick / TicksPerSol
	orbit := totalSols/(TicksPerOrbit/TicksPerSol) + 1
	sol := totalSols%(TicksPerOrbit/TicksPerSol) + 1

	return fmt.Sprintf("Orbit %d Sol %d (%s) %04d msol",
		orbit, sol, SeasonName(SeasonOf(tick)), msol)
}
