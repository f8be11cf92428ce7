package store

import (
	"context"
	"time"

	"github.com/roadwatch/trafficdash/internal/monitoring"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

// Poller watches the snapshot files for records dropped in by the capture
// pipeline and records the deltas as ingests. The pipeline writes straight
// to the data directory, so uploads through the API are not the only way
// data arrives.
type Poller struct {
	store    *Store
	history  *History
	clock    timeutil.Clock
	interval time.Duration

	lastSeen map[Dataset]map[string]bool
}

// NewPoller returns a poller that checks the snapshot files every interval.
func NewPoller(st *Store, history *History, clock timeutil.Clock, interval time.Duration) *Poller {
	return &Poller{
		store:    st,
		history:  history,
		clock:    clock,
		interval: interval,
		lastSeen: make(map[Dataset]map[string]bool),
	}
}

// Run polls until ctx is cancelled. The first poll primes the baseline
// without recording ingests; only records appearing after startup count.
func (p *Poller) Run(ctx context.Context) error {
	p.prime()

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			p.poll()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Poller) prime() {
	for _, ds := range Datasets {
		raw, err := p.store.ReadRaw(ds)
		if err != nil {
			monitoring.Logf("poller failed to prime %s: %v", ds, err)
			continue
		}
		seen := make(map[string]bool, len(raw))
		for id := range raw {
			seen[id] = true
		}
		p.lastSeen[ds] = seen
	}
}

// poll runs one scan across the snapshot files.
func (p *Poller) poll() {
	for _, ds := range Datasets {
		raw, err := p.store.ReadRaw(ds)
		if err != nil {
			monitoring.Logf("poller failed to read %s: %v", ds, err)
			continue
		}

		seen := p.lastSeen[ds]
		if seen == nil {
			seen = make(map[string]bool)
		}

		added := 0
		next := make(map[string]bool, len(raw))
		for id := range raw {
			next[id] = true
			if !seen[id] {
				added++
			}
		}
		p.lastSeen[ds] = next

		if added == 0 {
			continue
		}
		if p.history != nil {
			if _, err := p.history.RecordIngest(ds, added, 0, "poller"); err != nil {
				monitoring.Logf("poller failed to record ingest for %s: %v", ds, err)
			}
		}
		monitoring.Logf("poller found %d new record(s) in %s", added, ds)
	}
}
