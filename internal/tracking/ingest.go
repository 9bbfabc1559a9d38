// Package tracking drives the periodic location ingest cycle: read
// every tracked bus, compute its next position, write it back through
// the store, then broadcast one batched fleet update per tick.
package tracking

import (
	"context"
	"log"
	"time"

	"busline/internal/domain"
	"busline/internal/store"
	"busline/internal/utils"
)

// Publisher fans a domain event out to live subscribers.
type Publisher interface {
	Broadcast(ev domain.Event)
}

const defaultInterval = 30 * time.Second

type Ingestor struct {
	Store    store.Store
	Events   Publisher
	Source   PositionSource
	Interval time.Duration
}

// Run ticks until ctx is cancelled. The loop runs on its own goroutine
// and never blocks request handling.
func (in *Ingestor) Run(ctx context.Context) {
	interval := in.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[TRACKING] ingest loop started interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[TRACKING] ingest loop stopped")
			return
		case <-ticker.C:
			in.Tick()
		}
	}
}

// Tick runs one ingest cycle and returns the batched updates it
// broadcast. One failing bus never aborts the rest of the fleet, and
// the event goes out only after every location write has been applied.
func (in *Ingestor) Tick() []domain.BusLocationUpdate {
	locs, err := in.Store.ListLocations()
	if err != nil {
		log.Printf("[TRACKING] list locations: %v", err)
		return nil
	}

	updates := make([]domain.BusLocationUpdate, 0, len(locs))
	for _, cur := range locs {
		bus, err := in.Store.GetBus(cur.BusID)
		if err != nil {
			log.Printf("[TRACKING] skip bus %s: %v", cur.BusID, err)
			continue
		}
		if !bus.Active {
			continue
		}

		next := in.Source.Next(bus, cur)
		next.BusID = cur.BusID
		if next.Occupancy < 0 {
			next.Occupancy = 0
		}
		if next.Occupancy > bus.Capacity {
			next.Occupancy = bus.Capacity
		}
		if next.DelayMinutes < 0 {
			next.DelayMinutes = 0
		}
		next.UpdatedAt = utils.NowUTC()

		if err := in.Store.UpsertLocation(next); err != nil {
			log.Printf("[TRACKING] update bus %s: %v", cur.BusID, err)
			continue
		}
		updates = append(updates, domain.BusLocationUpdate{
			BusID:        next.BusID,
			Latitude:     next.Latitude,
			Longitude:    next.Longitude,
			Occupancy:    next.Occupancy,
			CurrentStop:  next.CurrentStop,
			DelayMinutes: next.DelayMinutes,
		})
	}

	if in.Events != nil && len(updates) > 0 {
		in.Events.Broadcast(domain.Event{Type: domain.EventBusLocations, Data: updates})
	}
	return updates
}
