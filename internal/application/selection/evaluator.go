// Package selection picks the single best quote among competitors for one
// demand chain.
package selection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Key is one ranking criterion.
type Key string

const (
	KeyPrice    Key = "price"
	KeyDate     Key = "date"
	KeyDistance Key = "distance"
)

// Ranking orders the three keys; later keys break ties of earlier ones.
type Ranking [3]Key

// The six total orderings.
var (
	PriceDateDistance = Ranking{KeyPrice, KeyDate, KeyDistance}
	PriceDistanceDate = Ranking{KeyPrice, KeyDistance, KeyDate}
	DatePriceDistance = Ranking{KeyDate, KeyPrice, KeyDistance}
	DateDistancePrice = Ranking{KeyDate, KeyDistance, KeyPrice}
	DistancePriceDate = Ranking{KeyDistance, KeyPrice, KeyDate}
	DistanceDatePrice = Ranking{KeyDistance, KeyDate, KeyPrice}
)

// ParseRanking reads a "price,date,distance" style spec.
func ParseRanking(spec string) (Ranking, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return Ranking{}, fmt.Errorf("ranking %q: want three comma-separated keys", spec)
	}
	var r Ranking
	for i, p := range parts {
		k := Key(strings.TrimSpace(p))
		switch k {
		case KeyPrice, KeyDate, KeyDistance:
			r[i] = k
		default:
			return Ranking{}, fmt.Errorf("ranking %q: unknown key %q", spec, p)
		}
	}
	if r[0] == r[1] || r[0] == r[2] || r[1] == r[2] {
		return Ranking{}, fmt.Errorf("ranking %q: keys must be distinct", spec)
	}
	return r, nil
}

// Criteria bounds which quotes are acceptable and how survivors rank.
type Criteria struct {
	Ranking Ranking
	// MaxPriceMargin caps the unit price at reference * (1+margin).
	MaxPriceMargin float64
	// MinQuantityRatio floors the offered quantity at requested * ratio.
	MinQuantityRatio float64
	// QuantityTolerance caps the offered quantity at requested * (1+tol).
	QuantityTolerance float64
	// Accept, when set, is a govaluate expression over price, unit_price,
	// quantity and days_to_ship that must evaluate true.
	Accept string
	// Less, when set, replaces the three-key ordering.
	Less func(a, b *message.Quote) bool
}

// Evaluator ranks quotes for a buyer.
type Evaluator struct {
	criteria Criteria
	locator  ledger.Locator
	logger   zerolog.Logger
}

func New(criteria Criteria, locator ledger.Locator, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		criteria: criteria,
		locator:  locator,
		logger:   logger.With().Str("component", "selection").Logger(),
	}
}

// Best returns the winning quote for the demand, or ok=false when every
// quote was discarded. An empty result is a stall, not an error.
func (e *Evaluator) Best(quotes []*message.Quote, demand *message.Demand, refPrice float64, now time.Time) (*message.Quote, bool) {
	alive := lo.Filter(quotes, func(q *message.Quote, _ int) bool {
		return e.Acceptable(q, demand, refPrice, now)
	})
	if len(alive) == 0 {
		return nil, false
	}

	buyer := demand.Sender
	less := e.criteria.Less
	if less == nil {
		less = func(a, b *message.Quote) bool { return e.rankLess(a, b, buyer) }
	}
	sort.Slice(alive, func(i, j int) bool {
		a, b := alive[i], alive[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		// Strict winner even on full ties.
		return a.ID.String() < b.ID.String()
	})
	return alive[0], true
}

// Acceptable applies the discard rules to one quote.
func (e *Evaluator) Acceptable(q *message.Quote, demand *message.Demand, refPrice float64, now time.Time) bool {
	c := e.criteria
	switch {
	case !q.ValidUntil.After(now):
		return false
	case q.Quantity <= 0:
		return false
	case refPrice > 0 && q.UnitPrice > refPrice*(1+c.MaxPriceMargin):
		return false
	case q.Quantity < int(float64(demand.Quantity)*c.MinQuantityRatio):
		return false
	case float64(q.Quantity) > float64(demand.Quantity)*(1+c.QuantityTolerance):
		return false
	case q.ShipDate.After(demand.LatestDelivery):
		return false
	}
	if c.Accept == "" {
		return true
	}

	expr, err := govaluate.NewEvaluableExpression(c.Accept)
	if err != nil {
		e.logger.Warn().Err(err).Str("expr", c.Accept).Msg("bad acceptance expression, quote discarded")
		return false
	}
	result, err := expr.Evaluate(map[string]interface{}{
		"price":        q.TotalPrice(),
		"unit_price":   q.UnitPrice,
		"quantity":     float64(q.Quantity),
		"days_to_ship": q.ShipDate.Sub(now).Hours() / 24,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("expr", c.Accept).Msg("acceptance expression failed, quote discarded")
		return false
	}
	ok, isBool := result.(bool)
	return isBool && ok
}

func (e *Evaluator) rankLess(a, b *message.Quote, buyer message.ActorID) bool {
	for _, k := range e.criteria.Ranking {
		switch k {
		case KeyPrice:
			if a.TotalPrice() != b.TotalPrice() {
				return a.TotalPrice() < b.TotalPrice()
			}
		case KeyDate:
			if !a.ShipDate.Equal(b.ShipDate) {
				return a.ShipDate.Before(b.ShipDate)
			}
		case KeyDistance:
			da := e.distance(buyer, a.Sender)
			db := e.distance(buyer, b.Sender)
			if da != db {
				return da < db
			}
		}
	}
	return false
}

func (e *Evaluator) distance(buyer, supplier message.ActorID) float64 {
	if e.locator == nil {
		return 0
	}
	return e.locator.Distance(buyer, supplier)
}
