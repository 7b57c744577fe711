package clock

import (
	"context"
	"time"
)

// Clock memisahkan waktu dari logic supaya cooldown dan loading floor
// bisa dites tanpa sleep beneran.
type Clock interface {
	Now() time.Time
	// Sleep blocks sampai durasi habis atau ctx dibatalkan.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
