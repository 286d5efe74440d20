package policy

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Courier moves messages between actors: it records the sent copy on the
// sender's store and dispatches into the receiver. Both stores share one
// immutable message value.
type Courier struct {
	sched  clock.Scheduler
	actors *Actors
	logger zerolog.Logger
	// WireDelay postpones delivery; zero delivers within the same event.
	WireDelay time.Duration
}

func NewCourier(sched clock.Scheduler, actors *Actors, logger zerolog.Logger) *Courier {
	return &Courier{
		sched:  sched,
		actors: actors,
		logger: logger.With().Str("component", "courier").Logger(),
	}
}

func (c *Courier) Send(m message.Message) {
	env := m.Env()
	if st := c.actors.Store(env.Sender); st != nil {
		st.Record(m, message.Sent)
	}

	deliver := func() {
		d := c.actors.Dispatcher(env.Receiver)
		if d == nil {
			c.logger.Warn().
				Str("kind", string(m.Kind())).
				Str("receiver", string(env.Receiver)).
				Msg("receiver unknown, message dropped")
			return
		}
		d.Dispatch(m)
	}

	if c.WireDelay <= 0 {
		deliver()
		return
	}
	c.sched.ScheduleAt(c.sched.Now().Add(c.WireDelay), deliver)
}

// Delay is a bounded handling-delay draw. Min==Max (or a nil source)
// makes the draw deterministic.
type Delay struct {
	Min time.Duration
	Max time.Duration
}

func (d Delay) Draw(rng *rand.Rand) time.Duration {
	if d.Max <= d.Min || rng == nil {
		return d.Min
	}
	return d.Min + time.Duration(rng.Int63n(int64(d.Max-d.Min)))
}
