package message

import (
	"encoding/json"
	"fmt"
)

// wireRecord tags a serialized payload with its concrete kind so replay
// can rebuild the right type.
type wireRecord struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Marshal serializes a message together with its concrete kind tag.
func Marshal(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", m.Kind(), err)
	}
	return json.Marshal(wireRecord{Kind: m.Kind(), Data: data})
}

// Unmarshal rebuilds a message from its tagged serialized form.
func Unmarshal(raw []byte) (Message, error) {
	var rec wireRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}

	var m Message
	switch rec.Kind {
	case KindDemand:
		m = &Demand{}
	case KindYellowPageRequest:
		m = &YellowPageRequest{}
	case KindYellowPageAnswer:
		m = &YellowPageAnswer{}
	case KindRequestForQuote:
		m = &RequestForQuote{}
	case KindQuote:
		m = &Quote{}
	case KindOrderFromQuote:
		m = &OrderFromQuote{}
	case KindDirectOrder:
		m = &DirectOrder{}
	case KindConfirmation:
		m = &Confirmation{}
	case KindShipment:
		m = &Shipment{}
	case KindBill:
		m = &Bill{}
	case KindPayment:
		m = &Payment{}
	default:
		return nil, fmt.Errorf("unknown message kind %q", rec.Kind)
	}
	if err := json.Unmarshal(rec.Data, m); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", rec.Kind, err)
	}
	return m, nil
}
