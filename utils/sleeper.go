package utils

import (
	"math/rand"
	"time"
)

// Sleeper is the single source of pacing delays. Every human-mimicking pause
// in the pipeline goes through one of these so tests can swap in ZeroSleeper
// and run instantly.
type Sleeper interface {
	//Pause blocks for a random duration in [min, max]
	Pause(min, max time.Duration)
}

type RandomSleeper struct{}

func (RandomSleeper) Pause(min, max time.Duration) {
	if min >= max {
		time.Sleep(min)
		return
	}
	delta := time.Duration(rand.Int63n(int64(max - min)))
	time.Sleep(min + delta)
}

// ZeroSleeper never sleeps. Test use only.
type ZeroSleeper struct{}

func (ZeroSleeper) Pause(min, max time.Duration) {}
