package message

import (
	"time"

	"github.com/google/uuid"
)

// ActorID identifies a trading actor (buyer, seller or broker).
type ActorID string

// Direction partitions a store's indexes by whether the owning actor
// sent or received a message.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
	// AnyDirection skips the direction filter on queries.
	AnyDirection Direction = ""
)

// Opposite returns the complementary direction. AnyDirection maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case Sent:
		return Received
	case Received:
		return Sent
	default:
		return d
	}
}

// Kind is the closed discriminant of the trade message set.
type Kind string

const (
	KindDemand            Kind = "demand"
	KindYellowPageRequest Kind = "yellow_page_request"
	KindYellowPageAnswer  Kind = "yellow_page_answer"
	KindRequestForQuote   Kind = "request_for_quote"
	KindQuote             Kind = "quote"
	// KindOrder is the canonical index key for both order variants.
	KindOrder          Kind = "order"
	KindOrderFromQuote Kind = "order_from_quote"
	KindDirectOrder    Kind = "direct_order"
	KindConfirmation   Kind = "order_confirmation"
	KindShipment       Kind = "shipment"
	KindBill           Kind = "bill"
	KindPayment        Kind = "payment"
)

// Fold normalizes concrete order variants onto the canonical order key.
// All store indexing and policy dispatch goes through Fold.
func (k Kind) Fold() Kind {
	if k == KindOrderFromQuote || k == KindDirectOrder {
		return KindOrder
	}
	return k
}

// Supersedes returns the folded kind whose pending entry is pruned when a
// message of kind k is recorded. A request is fully superseded the moment
// its answer arrives: every later policy correlates through the answer,
// never through the request. Orders, confirmations and shipments are kept
// until chain close because the fulfillment and fine checks still query them.
func (k Kind) Supersedes() (Kind, bool) {
	switch k {
	case KindYellowPageAnswer:
		return KindYellowPageRequest, true
	case KindQuote:
		return KindRequestForQuote, true
	case KindOrderFromQuote:
		return KindQuote, true
	case KindPayment:
		return KindBill, true
	}
	return "", false
}

// ChainKinds lists every folded kind that can belong to a demand chain,
// in protocol order. CloseChain cascades over this set.
func ChainKinds() []Kind {
	return []Kind{
		KindDemand,
		KindYellowPageRequest,
		KindYellowPageAnswer,
		KindRequestForQuote,
		KindQuote,
		KindOrder,
		KindConfirmation,
		KindShipment,
		KindBill,
		KindPayment,
	}
}

// TransportOption selects how a shipment travels.
type TransportOption string

const (
	TransportRoad TransportOption = "road"
	TransportRail TransportOption = "rail"
	TransportAir  TransportOption = "air"
)

// Envelope carries the fields common to every trade message. Messages are
// immutable once created; the envelope is shared read-only between the
// sender's and the receiver's stores.
type Envelope struct {
	ID       uuid.UUID `json:"id"`
	ChainID  uuid.UUID `json:"chainId"`
	Sender   ActorID   `json:"sender"`
	Receiver ActorID   `json:"receiver"`
	SentAt   time.Time `json:"sentAt"`
}

func (e *Envelope) Env() *Envelope { return e }

// Message is the abstract trade message envelope plus payload.
type Message interface {
	Env() *Envelope
	Kind() Kind
	// Product names the traded product, or "" when the payload has none.
	Product() string
	// Answers returns the id of the message this one replies to,
	// uuid.Nil for chain roots.
	Answers() uuid.UUID
}

// Demand is an actor's internal need for a product. It roots a chain:
// its own id doubles as the chain id.
type Demand struct {
	Envelope
	ProductName      string    `json:"product"`
	Quantity         int       `json:"quantity"`
	EarliestDelivery time.Time `json:"earliestDelivery"`
	LatestDelivery   time.Time `json:"latestDelivery"`
}

func NewDemand(actor ActorID, product string, qty int, earliest, latest, now time.Time) *Demand {
	id := uuid.New()
	return &Demand{
		Envelope:         Envelope{ID: id, ChainID: id, Sender: actor, Receiver: actor, SentAt: now},
		ProductName:      product,
		Quantity:         qty,
		EarliestDelivery: earliest,
		LatestDelivery:   latest,
	}
}

func (*Demand) Kind() Kind           { return KindDemand }
func (d *Demand) Product() string    { return d.ProductName }
func (d *Demand) Answers() uuid.UUID { return uuid.Nil }

// YellowPageRequest asks a broker for suppliers of a product.
type YellowPageRequest struct {
	Envelope
	ProductName string `json:"product"`
}

func NewYellowPageRequest(d *Demand, broker ActorID, now time.Time) *YellowPageRequest {
	return &YellowPageRequest{
		Envelope:    Envelope{ID: uuid.New(), ChainID: d.ChainID, Sender: d.Sender, Receiver: broker, SentAt: now},
		ProductName: d.ProductName,
	}
}

func (*YellowPageRequest) Kind() Kind           { return KindYellowPageRequest }
func (r *YellowPageRequest) Product() string    { return r.ProductName }
func (r *YellowPageRequest) Answers() uuid.UUID { return uuid.Nil }

// YellowPageAnswer returns the broker's candidate suppliers.
type YellowPageAnswer struct {
	Envelope
	RequestID   uuid.UUID `json:"requestId"`
	ProductName string    `json:"product"`
	Suppliers   []ActorID `json:"suppliers"`
}

func NewYellowPageAnswer(req *YellowPageRequest, suppliers []ActorID, now time.Time) *YellowPageAnswer {
	return &YellowPageAnswer{
		Envelope:    Envelope{ID: uuid.New(), ChainID: req.ChainID, Sender: req.Receiver, Receiver: req.Sender, SentAt: now},
		RequestID:   req.ID,
		ProductName: req.ProductName,
		Suppliers:   suppliers,
	}
}

func (*YellowPageAnswer) Kind() Kind           { return KindYellowPageAnswer }
func (a *YellowPageAnswer) Product() string    { return a.ProductName }
func (a *YellowPageAnswer) Answers() uuid.UUID { return a.RequestID }

// RequestForQuote asks one supplier to quote for a demand. After Cutoff
// the request is considered abandoned.
type RequestForQuote struct {
	Envelope
	DemandID         uuid.UUID `json:"demandId"`
	ProductName      string    `json:"product"`
	Quantity         int       `json:"quantity"`
	EarliestDelivery time.Time `json:"earliestDelivery"`
	LatestDelivery   time.Time `json:"latestDelivery"`
	Cutoff           time.Time `json:"cutoff"`
}

func NewRequestForQuote(d *Demand, supplier ActorID, cutoff, now time.Time) *RequestForQuote {
	return &RequestForQuote{
		Envelope:         Envelope{ID: uuid.New(), ChainID: d.ChainID, Sender: d.Sender, Receiver: supplier, SentAt: now},
		DemandID:         d.ID,
		ProductName:      d.ProductName,
		Quantity:         d.Quantity,
		EarliestDelivery: d.EarliestDelivery,
		LatestDelivery:   d.LatestDelivery,
		Cutoff:           cutoff,
	}
}

func (*RequestForQuote) Kind() Kind           { return KindRequestForQuote }
func (r *RequestForQuote) Product() string    { return r.ProductName }
func (r *RequestForQuote) Answers() uuid.UUID { return r.DemandID }

// Quote is a supplier's offer against an RFQ.
type Quote struct {
	Envelope
	RFQID       uuid.UUID       `json:"rfqId"`
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   float64         `json:"unitPrice"`
	ShipDate    time.Time       `json:"shipDate"`
	Transport   TransportOption `json:"transport"`
	ValidUntil  time.Time       `json:"validUntil"`
}

func NewQuote(rfq *RequestForQuote, qty int, unitPrice float64, shipDate time.Time, transport TransportOption, validUntil, now time.Time) *Quote {
	return &Quote{
		Envelope:    Envelope{ID: uuid.New(), ChainID: rfq.ChainID, Sender: rfq.Receiver, Receiver: rfq.Sender, SentAt: now},
		RFQID:       rfq.ID,
		ProductName: rfq.ProductName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		ShipDate:    shipDate,
		Transport:   transport,
		ValidUntil:  validUntil,
	}
}

func (*Quote) Kind() Kind           { return KindQuote }
func (q *Quote) Product() string    { return q.ProductName }
func (q *Quote) Answers() uuid.UUID { return q.RFQID }

// TotalPrice is the full offered price for the quoted quantity.
func (q *Quote) TotalPrice() float64 { return q.UnitPrice * float64(q.Quantity) }

// Order is the common view over both order variants. Stores index orders
// under KindOrder regardless of the concrete variant.
type Order interface {
	Message
	OrderedQuantity() int
	OrderPrice() float64
	DeliveryDate() time.Time
	TransportOption() TransportOption
}

// OrderFromQuote commits to a previously received quote.
type OrderFromQuote struct {
	Envelope
	QuoteID     uuid.UUID       `json:"quoteId"`
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   float64         `json:"unitPrice"`
	Delivery    time.Time       `json:"delivery"`
	Transport   TransportOption `json:"transport"`
}

func NewOrderFromQuote(q *Quote, delivery, now time.Time) *OrderFromQuote {
	return &OrderFromQuote{
		Envelope:    Envelope{ID: uuid.New(), ChainID: q.ChainID, Sender: q.Receiver, Receiver: q.Sender, SentAt: now},
		QuoteID:     q.ID,
		ProductName: q.ProductName,
		Quantity:    q.Quantity,
		UnitPrice:   q.UnitPrice,
		Delivery:    delivery,
		Transport:   q.Transport,
	}
}

func (*OrderFromQuote) Kind() Kind                       { return KindOrderFromQuote }
func (o *OrderFromQuote) Product() string                { return o.ProductName }
func (o *OrderFromQuote) Answers() uuid.UUID             { return o.QuoteID }
func (o *OrderFromQuote) OrderedQuantity() int           { return o.Quantity }
func (o *OrderFromQuote) OrderPrice() float64            { return o.UnitPrice * float64(o.Quantity) }
func (o *OrderFromQuote) DeliveryDate() time.Time        { return o.Delivery }
func (o *OrderFromQuote) TransportOption() TransportOption { return o.Transport }

// DirectOrder skips negotiation and orders straight from a configured
// supplier at the buyer's reference price.
type DirectOrder struct {
	Envelope
	DemandID    uuid.UUID       `json:"demandId"`
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   float64         `json:"unitPrice"`
	Delivery    time.Time       `json:"delivery"`
	Transport   TransportOption `json:"transport"`
}

func NewDirectOrder(d *Demand, supplier ActorID, unitPrice float64, delivery time.Time, transport TransportOption, now time.Time) *DirectOrder {
	return &DirectOrder{
		Envelope:    Envelope{ID: uuid.New(), ChainID: d.ChainID, Sender: d.Sender, Receiver: supplier, SentAt: now},
		DemandID:    d.ID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		UnitPrice:   unitPrice,
		Delivery:    delivery,
		Transport:   transport,
	}
}

func (*DirectOrder) Kind() Kind                       { return KindDirectOrder }
func (o *DirectOrder) Product() string                { return o.ProductName }
func (o *DirectOrder) Answers() uuid.UUID             { return o.DemandID }
func (o *DirectOrder) OrderedQuantity() int           { return o.Quantity }
func (o *DirectOrder) OrderPrice() float64            { return o.UnitPrice * float64(o.Quantity) }
func (o *DirectOrder) DeliveryDate() time.Time        { return o.Delivery }
func (o *DirectOrder) TransportOption() TransportOption { return o.Transport }

// Confirmation accepts or rejects an order.
type Confirmation struct {
	Envelope
	OrderID     uuid.UUID `json:"orderId"`
	ProductName string    `json:"product"`
	Accepted    bool      `json:"accepted"`
}

func NewConfirmation(o Order, accepted bool, now time.Time) *Confirmation {
	env := o.Env()
	return &Confirmation{
		Envelope:    Envelope{ID: uuid.New(), ChainID: env.ChainID, Sender: env.Receiver, Receiver: env.Sender, SentAt: now},
		OrderID:     env.ID,
		ProductName: o.Product(),
		Accepted:    accepted,
	}
}

func (*Confirmation) Kind() Kind           { return KindConfirmation }
func (c *Confirmation) Product() string    { return c.ProductName }
func (c *Confirmation) Answers() uuid.UUID { return c.OrderID }

// Shipment carries the goods for an accepted order. InTransit and
// Delivered are mutated only by the receiving actor's side.
type Shipment struct {
	Envelope
	OrderID     uuid.UUID `json:"orderId"`
	ProductName string    `json:"product"`
	Quantity    int       `json:"quantity"`
	CargoValue  float64   `json:"cargoValue"`
	InTransit   bool      `json:"inTransit"`
	Delivered   bool      `json:"delivered"`
}

func NewShipment(o Order, qty int, cargoValue float64, now time.Time) *Shipment {
	env := o.Env()
	return &Shipment{
		Envelope:    Envelope{ID: uuid.New(), ChainID: env.ChainID, Sender: env.Receiver, Receiver: env.Sender, SentAt: now},
		OrderID:     env.ID,
		ProductName: o.Product(),
		Quantity:    qty,
		CargoValue:  cargoValue,
		InTransit:   true,
	}
}

func (*Shipment) Kind() Kind           { return KindShipment }
func (s *Shipment) Product() string    { return s.ProductName }
func (s *Shipment) Answers() uuid.UUID { return s.OrderID }

// Bill demands payment for a shipped order. Paid is mutated only by the
// billing actor's side once the payment arrives.
type Bill struct {
	Envelope
	OrderID     uuid.UUID `json:"orderId"`
	ProductName string    `json:"product"`
	Amount      float64   `json:"amount"`
	DueDate     time.Time `json:"dueDate"`
	Paid        bool      `json:"paid"`
}

func NewBill(o Order, amount float64, dueDate, now time.Time) *Bill {
	env := o.Env()
	return &Bill{
		Envelope:    Envelope{ID: uuid.New(), ChainID: env.ChainID, Sender: env.Receiver, Receiver: env.Sender, SentAt: now},
		OrderID:     env.ID,
		ProductName: o.Product(),
		Amount:      amount,
		DueDate:     dueDate,
	}
}

func (*Bill) Kind() Kind           { return KindBill }
func (b *Bill) Product() string    { return b.ProductName }
func (b *Bill) Answers() uuid.UUID { return b.OrderID }

// Payment settles a bill.
type Payment struct {
	Envelope
	BillID uuid.UUID `json:"billId"`
	Amount float64   `json:"amount"`
}

func NewPayment(b *Bill, amount float64, now time.Time) *Payment {
	return &Payment{
		Envelope: Envelope{ID: uuid.New(), ChainID: b.ChainID, Sender: b.Receiver, Receiver: b.Sender, SentAt: now},
		BillID:   b.ID,
		Amount:   amount,
	}
}

func (*Payment) Kind() Kind           { return KindPayment }
func (p *Payment) Product() string    { return "" }
func (p *Payment) Answers() uuid.UUID { return p.BillID }

// Deadline returns the expiry instant of a still-open request and whether
// the message kind has one. Answer-type messages never expire on their own.
func Deadline(m Message) (time.Time, bool) {
	switch v := m.(type) {
	case *Demand:
		return v.LatestDelivery, true
	case *RequestForQuote:
		return v.Cutoff, true
	case *Quote:
		return v.ValidUntil, true
	case Order:
		return v.DeliveryDate(), true
	}
	return time.Time{}, false
}
