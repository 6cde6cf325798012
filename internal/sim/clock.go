package sim

import (
	"math"
	"time"
)

// Clock converts wall-clock frame time into a whole number of fixed
// physics steps, carrying the remainder to the next frame.
type Clock struct {
	dt       float64
	maxSteps int
	acc      float64
}

// NewClock returns a clock for the given step size. maxSteps caps the
// steps reported per Advance; excess accumulated time is dropped. Zero
// means no cap.
func NewClock(dt float64, maxSteps int) *Clock {
	return &Clock{dt: dt, maxSteps: maxSteps}
}

// Advance adds elapsed time and returns how many steps are now due.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		c.acc += elapsed.Seconds()
	}
	if c.dt <= 0 {
		return 0
	}
	n := int(math.Floor(c.acc / c.dt))
	c.acc -= float64(n) * c.dt
	if c.maxSteps > 0 && n > c.maxSteps {
		n = c.maxSteps
	}
	return n
}

// Alpha is the fraction of a step left in the accumulator, in [0, 1).
func (c *Clock) Alpha() float64 {
	if c.dt <= 0 {
		return 0
	}
	return c.acc / c.dt
}

func (c *Clock) Dt() float64 { return c.dt }

func (c *Clock) Reset() { c.acc = 0 }
