package book

import (
	"container/list"

	"github.com/tidwall/btree"
)

// priceLevel is one resting price level: a price and the FIFO queue of
// orders at that price. It is the btree's item type; the tree orders
// levels by price alone, never by queue contents.
type priceLevel struct {
	price  int32
	orders *list.List
}

// ladder holds one side's price levels in a github.com/tidwall/btree
// BTreeG, keyed by price with a side-specific comparator (descending
// for bids, ascending for asks) so Scan already yields native order.
// Orders within a level are a container/list sequence so the index can
// hold a direct *list.Element back-reference that survives arbitrary
// removal elsewhere in the level — a slice with index shifting would
// invalidate those references.
type ladder struct {
	tree *btree.BTreeG[*priceLevel]
}

func newLadder(descending bool) *ladder {
	less := func(a, b *priceLevel) bool { return a.price < b.price }
	if descending {
		less = func(a, b *priceLevel) bool { return a.price > b.price }
	}
	return &ladder{tree: btree.NewBTreeG(less)}
}

// levelAt returns the existing level's order queue at price, or nil.
func (l *ladder) levelAt(price int32) *list.List {
	lvl, ok := l.tree.Get(&priceLevel{price: price})
	if !ok {
		return nil
	}
	return lvl.orders
}

// getOrCreate returns the level's order queue at price, creating and
// inserting an empty level if one doesn't yet exist.
func (l *ladder) getOrCreate(price int32) *list.List {
	if lvl, ok := l.tree.Get(&priceLevel{price: price}); ok {
		return lvl.orders
	}
	lvl := &priceLevel{price: price, orders: list.New()}
	l.tree.Set(lvl)
	return lvl.orders
}

// prune removes the level at price if it has become empty, keeping the
// "no price level is empty" invariant.
func (l *ladder) prune(price int32) {
	lvl, ok := l.tree.Get(&priceLevel{price: price})
	if !ok || lvl.orders.Len() > 0 {
		return
	}
	l.tree.Delete(&priceLevel{price: price})
}

// LevelAgg is one aggregated (price, volume) pair in a depth snapshot.
type LevelAgg struct {
	Price  int32
	Volume uint64
}

// snapshot returns up to `levels` aggregated price levels in the
// ladder's native order (descending for bids, ascending for asks),
// which is simply tree iteration order since the comparator already
// encodes the side.
func (l *ladder) snapshot(levels int) []LevelAgg {
	if levels <= 0 || l.tree.Len() == 0 {
		return nil
	}
	out := make([]LevelAgg, 0, levels)
	l.tree.Scan(func(lvl *priceLevel) bool {
		var vol uint64
		for e := lvl.orders.Front(); e != nil; e = e.Next() {
			vol += e.Value.(*Order).Volume
		}
		out = append(out, LevelAgg{Price: lvl.price, Volume: vol})
		return len(out) < levels
	})
	return out
}
