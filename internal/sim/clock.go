package sim

import "math"

// Frame is the work a clock hands out for one rendered frame: a number of
// whole simulation ticks, and how far into the next tick the display is.
type Frame struct {
	Ticks int
	Alpha float64
}

// Clock converts wall-clock frame deltas into fixed simulation ticks.
//
// Simulated time advances at Multiplier times real time. Leftover time
// below one tick carries into the next frame and is reported as Alpha for
// interpolation. When MaxTicksPerFrame (if positive) caps a frame, the
// excess backlog is dropped instead of replayed later.
type Clock struct {
	TickSize         float64
	Multiplier       float64
	MaxTicksPerFrame int

	acc     float64
	dropped int
}

func NewClock(tickSize, multiplier float64, maxTicksPerFrame int) *Clock {
	return &Clock{
		TickSize:         tickSize,
		Multiplier:       multiplier,
		MaxTicksPerFrame: maxTicksPerFrame,
	}
}

// Advance accounts for delta seconds of real time. Negative or non-finite
// deltas count as zero.
func (c *Clock) Advance(delta float64) Frame {
	if !(c.TickSize > 0) || math.IsInf(c.TickSize, 0) {
		return Frame{}
	}
	if !finite(delta) || delta < 0 {
		delta = 0
	}
	mult := c.Multiplier
	if !finite(mult) || mult < 0 {
		mult = 0
	}

	c.acc += delta * mult
	if !finite(c.acc) {
		c.acc = 0
	}

	rem := math.Mod(c.acc, c.TickSize)
	ticks := int(math.Round((c.acc - rem) / c.TickSize))
	c.acc = rem

	if c.MaxTicksPerFrame > 0 && ticks > c.MaxTicksPerFrame {
		c.dropped += ticks - c.MaxTicksPerFrame
		ticks = c.MaxTicksPerFrame
	}

	alpha := c.acc / c.TickSize
	if alpha >= 1 {
		alpha = math.Nextafter(1, 0)
	}
	return Frame{Ticks: ticks, Alpha: alpha}
}

// Alpha is the fraction of a tick accumulated but not yet simulated.
func (c *Clock) Alpha() float64 {
	if !(c.TickSize > 0) {
		return 0
	}
	return c.acc / c.TickSize
}

// Dropped is the number of ticks discarded by the per-frame cap.
func (c *Clock) Dropped() int { return c.dropped }

// SetMultiplier changes the time warp. Values below zero stop the clock.
func (c *Clock) SetMultiplier(m float64) {
	if m < 0 {
		m = 0
	}
	c.Multiplier = m
}

func (c *Clock) Reset() {
	c.acc = 0
	c.dropped = 0
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
