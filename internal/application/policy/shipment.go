package policy

import (
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// ShipmentRole tells the buyer what arriving goods are for.
type ShipmentRole string

const (
	// RoleReplenish stocks the goods and settles the on-order counter.
	RoleReplenish ShipmentRole = "replenish"
	// RoleConsume takes delivery without stocking anything.
	RoleConsume ShipmentRole = "consume"
)

// ShipmentPolicy is the buyer side of goods receipt.
type ShipmentPolicy struct {
	actor  message.ActorID
	role   ShipmentRole
	stock  ledger.Stock
	logger zerolog.Logger
}

func NewShipmentPolicy(actor message.ActorID, role ShipmentRole, stock ledger.Stock, logger zerolog.Logger) *ShipmentPolicy {
	return &ShipmentPolicy{
		actor:  actor,
		role:   role,
		stock:  stock,
		logger: logger.With().Str("policy", "shipment").Str("actor", string(actor)).Logger(),
	}
}

func (*ShipmentPolicy) Kind() message.Kind { return message.KindShipment }

func (p *ShipmentPolicy) Handle(m message.Message) bool {
	s, ok := m.(*message.Shipment)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a shipment")
		return false
	}

	s.InTransit = false
	s.Delivered = true

	if p.role == RoleReplenish && p.stock != nil {
		p.stock.Add(s.ProductName, s.Quantity)
		p.stock.ReduceOnOrder(s.ProductName, s.Quantity)
	}

	p.logger.Debug().
		Str("chain", s.ChainID.String()).
		Int("quantity", s.Quantity).
		Str("role", string(p.role)).
		Msg("shipment delivered")
	return true
}
