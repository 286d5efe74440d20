package ledger

import (
	"math"
	"time"

	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// FlatTransport estimates transit from actor distance and a per-option
// speed, and cost from distance, quantity and a per-option rate.
type FlatTransport struct {
	Locator Locator
	// DaysPerUnit maps a transport option to transit days per unit of
	// distance. Unknown options fall back to road.
	DaysPerUnit map[message.TransportOption]float64
	// RatePerUnit maps a transport option to cost per unit of distance
	// and item.
	RatePerUnit map[message.TransportOption]float64
}

func NewFlatTransport(loc Locator) *FlatTransport {
	return &FlatTransport{
		Locator: loc,
		DaysPerUnit: map[message.TransportOption]float64{
			message.TransportRoad: 1,
			message.TransportRail: 0.5,
			message.TransportAir:  0.1,
		},
		RatePerUnit: map[message.TransportOption]float64{
			message.TransportRoad: 0.1,
			message.TransportRail: 0.2,
			message.TransportAir:  1,
		},
	}
}

func (t *FlatTransport) TransitTime(from, to message.ActorID, opt message.TransportOption) time.Duration {
	days, ok := t.DaysPerUnit[opt]
	if !ok {
		days = t.DaysPerUnit[message.TransportRoad]
	}
	dist := t.Locator.Distance(from, to)
	return time.Duration(math.Ceil(dist*days)) * 24 * time.Hour
}

func (t *FlatTransport) Cost(from, to message.ActorID, opt message.TransportOption, qty int) float64 {
	rate, ok := t.RatePerUnit[opt]
	if !ok {
		rate = t.RatePerUnit[message.TransportRoad]
	}
	return t.Locator.Distance(from, to) * rate * float64(qty)
}

// GridLocator places actors on a plane and measures Euclidean distance.
type GridLocator struct {
	positions map[message.ActorID][2]float64
}

func NewGridLocator() *GridLocator {
	return &GridLocator{positions: make(map[message.ActorID][2]float64)}
}

func (g *GridLocator) Place(id message.ActorID, x, y float64) {
	g.positions[id] = [2]float64{x, y}
}

// Distance between two placed actors. Unplaced actors sit at the origin.
func (g *GridLocator) Distance(a, b message.ActorID) float64 {
	pa, pb := g.positions[a], g.positions[b]
	dx, dy := pa[0]-pb[0], pa[1]-pb[1]
	return math.Sqrt(dx*dx + dy*dy)
}
