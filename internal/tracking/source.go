package tracking

import (
	"math/rand"
	"sync"

	"busline/internal/domain/models"
)

// PositionSource produces the next location for a bus. The random walk
// below stands in for real GPS telemetry; a live feed plugs in behind
// the same interface without touching the broadcast contract.
type PositionSource interface {
	Next(bus models.Bus, cur models.BusLocation) models.BusLocation
}

// RandomWalk perturbs position by up to ~±0.0005 degrees and occupancy
// by up to ±5 passengers per tick.
type RandomWalk struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomWalk(seed int64) *RandomWalk {
	return &RandomWalk{rnd: rand.New(rand.NewSource(seed))}
}

func (w *RandomWalk) Next(bus models.Bus, cur models.BusLocation) models.BusLocation {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur.Latitude += (w.rnd.Float64() - 0.5) * 0.001
	cur.Longitude += (w.rnd.Float64() - 0.5) * 0.001
	cur.Occupancy += w.rnd.Intn(11) - 5
	cur.DelayMinutes += w.rnd.Intn(5) - 2
	return cur
}
