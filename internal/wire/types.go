// Package wire defines the fixed-layout binary records carried on the
// depth-feed input stream: a 9-byte header followed by one of four event
// bodies, little-endian, tightly packed.
package wire

// MsgType tags the body that follows a Header.
type MsgType byte

const (
	MsgAdd     MsgType = 'A'
	MsgUpdate  MsgType = 'U'
	MsgDelete  MsgType = 'D'
	MsgTraded  MsgType = 'E'
	MsgUnknown MsgType = 0
)

// Side identifies which ladder an order rests on.
type Side byte

const (
	SideBuy     Side = 'B'
	SideSell    Side = 'S'
	SideUnknown Side = 0
)

// IsBid reports whether s is the buy side.
func (s Side) IsBid() bool { return s == SideBuy }

const (
	// HeaderSize is the fixed on-wire size of Header, in bytes.
	HeaderSize = 9

	// AddUpdateBodySize is the fixed on-wire size of an ADD or UPDATE body:
	// 3 (symbol) + 8 (order_id) + 1 (side) + 3 (reserved) + 8 (size) +
	// 4 (price) + 4 (reserved), tightly packed with no inter-field padding.
	AddUpdateBodySize = 31

	// DeleteBodySize is the fixed on-wire size of a DELETE body:
	// 3 (symbol) + 8 (order_id) + 1 (side) + 3 (reserved).
	DeleteBodySize = 15

	// TradedBodySize is the fixed on-wire size of a TRADED body:
	// 3 (symbol) + 8 (order_id) + 1 (side) + 3 (reserved) + 8 (volume).
	TradedBodySize = 23

	// SymbolSize is the width of the raw, non-null-terminated symbol field.
	SymbolSize = 3
)

// Header is the 9-byte record preceding every event body.
type Header struct {
	SeqNum  int32
	MsgSize int32
	MsgType MsgType
}

// BodySize returns the expected body length for this header's MsgType, and
// whether that MsgType is recognized at all.
func (h Header) BodySize() (int, bool) {
	switch h.MsgType {
	case MsgAdd, MsgUpdate:
		return AddUpdateBodySize, true
	case MsgDelete:
		return DeleteBodySize, true
	case MsgTraded:
		return TradedBodySize, true
	default:
		return 0, false
	}
}

// Symbol is the raw 3-byte symbol field, forwarded opaquely into snapshots.
type Symbol [SymbolSize]byte

func (s Symbol) String() string { return string(s[:]) }

// OrderAdd / OrderUpdate share a body layout: symbol, order id, side,
// 3 reserved bytes, size, price, 4 reserved bytes.
type OrderAdd struct {
	Symbol  Symbol
	OrderID uint64
	Side    Side
	Size    uint64
	Price   int32
}

// OrderUpdate is identical in wire layout to OrderAdd.
type OrderUpdate = OrderAdd

// OrderDelete is the 15-byte DELETE body.
type OrderDelete struct {
	Symbol  Symbol
	OrderID uint64
	Side    Side
}

// OrderTraded is the 23-byte TRADED (partial/full execution) body.
type OrderTraded struct {
	Symbol  Symbol
	OrderID uint64
	Side    Side
	Volume  uint64
}

// Event bundles a decoded Header with its typed body. Exactly one of the
// body fields is populated, selected by Header.MsgType.
type Event struct {
	Header Header
	Add    *OrderAdd
	Update *OrderUpdate
	Delete *OrderDelete
	Traded *OrderTraded
}
