// Package book implements the limit order book: two price-ordered
// ladders (bids descending, asks ascending) plus a per-order index for
// O(1) average-case lookup, mutated by ADD/UPDATE/DELETE/TRADED events
// and queried for top-of-book depth snapshots.
package book

import (
	"container/list"

	"go.uber.org/zap"
)

// Metrics receives non-fatal logic-error counts. The book never imports
// the telemetry package directly; telemetry.Counters implements this.
type Metrics interface {
	IncUnknownOrder(op string)
	IncDuplicateAdd()
}

type noopMetrics struct{}

func (noopMetrics) IncUnknownOrder(string) {}
func (noopMetrics) IncDuplicateAdd()       {}

// location is the order index's value: where a resting order lives.
type location struct {
	side Side
	elem *list.Element
}

// OrderBook holds one symbol-agnostic book: every symbol on the wire
// shares the same pair of ladders. It is not safe for concurrent use —
// the depth-feed event loop is single-threaded.
type OrderBook struct {
	bids  *ladder
	asks  *ladder
	index map[uint64]*location

	logger  *zap.Logger
	metrics Metrics
}

// Option configures an OrderBook at construction time.
type Option func(*OrderBook)

// WithLogger attaches a zap logger for non-fatal diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *OrderBook) { b.logger = l }
}

// WithMetrics attaches a counters sink for non-fatal logic errors.
func WithMetrics(m Metrics) Option {
	return func(b *OrderBook) { b.metrics = m }
}

// New builds an empty OrderBook.
func New(opts ...Option) *OrderBook {
	b := &OrderBook{
		bids:    newLadder(true),
		asks:    newLadder(false),
		index:   make(map[uint64]*location),
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *OrderBook) ladderFor(side Side) *ladder {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

// Add appends a new resting order to the tail of its price level. A
// duplicate order_id is rejected with a diagnostic rather than silently
// overwriting the index, so a stray repeated ADD can never make an
// existing resting order unreachable.
func (b *OrderBook) Add(o Order, side Side) {
	if _, exists := b.index[o.OrderID]; exists {
		b.metrics.IncDuplicateAdd()
		b.logger.Warn("rejecting duplicate order_id on ADD",
			zap.Uint64("order_id", o.OrderID), zap.Int32("price", o.Price))
		return
	}
	lvl := b.ladderFor(side).getOrCreate(o.Price)
	elem := lvl.PushBack(&o)
	b.index[o.OrderID] = &location{side: side, elem: elem}
}

// Update mutates volume in place when price is unchanged (time priority
// preserved), or moves the order to the tail of the new price level when
// price changes (time priority lost). The side carried on the wire is
// ignored; the side recorded at insertion time is authoritative.
func (b *OrderBook) Update(orderID uint64, newSize uint64, newPrice int32) {
	loc, ok := b.index[orderID]
	if !ok {
		b.metrics.IncUnknownOrder("update")
		b.logger.Warn("update references unknown order_id", zap.Uint64("order_id", orderID))
		return
	}
	o := loc.elem.Value.(*Order)
	if o.Price == newPrice {
		o.Volume = newSize
		return
	}

	lad := b.ladderFor(loc.side)
	oldPrice := o.Price
	lad.levelAt(oldPrice).Remove(loc.elem)
	lad.prune(oldPrice)

	newLvl := lad.getOrCreate(newPrice)
	elem := newLvl.PushBack(&Order{OrderID: orderID, Volume: newSize, Price: newPrice})
	b.index[orderID] = &location{side: loc.side, elem: elem}
}

// Delete removes an order entirely.
func (b *OrderBook) Delete(orderID uint64) {
	loc, ok := b.index[orderID]
	if !ok {
		b.metrics.IncUnknownOrder("delete")
		b.logger.Warn("delete references unknown order_id", zap.Uint64("order_id", orderID))
		return
	}
	b.removeResting(orderID, loc)
}

// Execute applies a partial or full fill. A full fill (executedVolume >=
// current volume) removes the order regardless of any overfill.
func (b *OrderBook) Execute(orderID uint64, executedVolume uint64) {
	loc, ok := b.index[orderID]
	if !ok {
		b.metrics.IncUnknownOrder("execute")
		b.logger.Warn("execute references unknown order_id", zap.Uint64("order_id", orderID))
		return
	}
	o := loc.elem.Value.(*Order)
	if executedVolume < o.Volume {
		o.Volume -= executedVolume
		return
	}
	b.removeResting(orderID, loc)
}

func (b *OrderBook) removeResting(orderID uint64, loc *location) {
	o := loc.elem.Value.(*Order)
	lad := b.ladderFor(loc.side)
	lad.levelAt(o.Price).Remove(loc.elem)
	lad.prune(o.Price)
	delete(b.index, orderID)
}

// Snapshot returns up to `levels` aggregated (price, volume) pairs for
// one side, in that side's native order.
func (b *OrderBook) Snapshot(side Side, levels int) []LevelAgg {
	return b.ladderFor(side).snapshot(levels)
}
