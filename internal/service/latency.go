package service

import (
	"context"
	"time"
)

// Latency toggles the simulated response delay the original remote API had.
// Hosts enable it for UI realism; tests and batch jobs leave it off. It has
// no effect on correctness.
type Latency bool

const (
	NoLatency        Latency = false
	SimulatedLatency Latency = true
)

// Per-operation delays, mirroring the original service timings.
const (
	delayList   = 300 * time.Millisecond
	delayGet    = 200 * time.Millisecond
	delayCreate = 400 * time.Millisecond
	delayUpdate = 300 * time.Millisecond
	delayDelete = 250 * time.Millisecond
	delayQuery  = 200 * time.Millisecond
)

func (l Latency) sleep(ctx context.Context, d time.Duration) {
	if !l {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
