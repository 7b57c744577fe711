package clock

import (
	"context"
	"time"
)

type FakeClock struct {
	now    time.Time
	Slept  []time.Duration
	slept  time.Duration
	sleepE error
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Sleep tidak pernah block; durasi dicatat dan jam langsung maju.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if d < 0 {
		d = 0
	}
	c.Slept = append(c.Slept, d)
	c.slept += d
	c.now = c.now.Add(d)
	return c.sleepE
}

func (c *FakeClock) TotalSlept() time.Duration {
	return c.slept
}
