package ws

import (
	"math"
	"time"
)

const DefaultRetryDelay = time.Second

// Backoff decides how long to wait before reconnect attempt n (0-based,
// reset after every successful connection).
type Backoff interface {
	Next(attempt int) time.Duration
}

// Fixed waits the same delay forever.
type Fixed struct {
	Delay time.Duration
}

func (f Fixed) Next(int) time.Duration {
	if f.Delay <= 0 {
		return DefaultRetryDelay
	}
	return f.Delay
}

// Exponential doubles the delay per attempt up to Max.
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

func (e Exponential) Next(attempt int) time.Duration {
	d := e.Base
	if d <= 0 {
		d = DefaultRetryDelay
	}
	for i := 0; i < attempt && d < math.MaxInt64/2; i++ {
		d *= 2
		if e.Max > 0 && d >= e.Max {
			return e.Max
		}
	}
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}
