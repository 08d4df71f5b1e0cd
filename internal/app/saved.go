package service

import (
	"sync"
	"time"

	"github.com/okian/riskgauge/pkg/metrics"
)

// savedFlags tracks the transient "saved" confirmation per indicator key.
type savedFlags struct {
	mu    sync.Mutex
	ttl   time.Duration
	gen   uint64
	flags map[string]savedFlag
}

type savedFlag struct {
	gen   uint64
	timer *time.Timer
}

func newSavedFlags(ttl time.Duration) *savedFlags {
	return &savedFlags{ttl: ttl, flags: make(map[string]savedFlag)}
}

// Mark raises the flag for key and restarts its expiry.
func (f *savedFlags) Mark(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.flags[key]; ok {
		prev.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.flags[key] = savedFlag{
		gen:   gen,
		timer: time.AfterFunc(f.ttl, func() { f.expire(key, gen) }),
	}
	metrics.UpdateSavedFlags(len(f.flags))
}

// expire clears key unless it was re-marked since gen was issued.
func (f *savedFlags) expire(key string, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.flags[key]; ok && cur.gen == gen {
		delete(f.flags, key)
		metrics.UpdateSavedFlags(len(f.flags))
	}
}

func (f *savedFlags) Active(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.flags[key]
	return ok
}

func (f *savedFlags) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flags)
}

// Stop cancels all pending expiries and clears every flag.
func (f *savedFlags) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, flag := range f.flags {
		flag.timer.Stop()
		delete(f.flags, key)
	}
	metrics.UpdateSavedFlags(0)
}
