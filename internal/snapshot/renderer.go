// Package snapshot renders a top-of-book depth snapshot as a fixed
// text grammar:
//
//	<seq>, <symbol>, [<bid_list>], [<ask_list>]
package snapshot

import (
	"strconv"
	"strings"

	"github.com/abdoElHodaky/depthfeed/internal/book"
)

// Render produces the snapshot string for one applied event. symbol is
// forwarded verbatim; it is opaque to the core.
func Render(seqNum int32, symbol string, levels int, b *book.OrderBook) string {
	bids := b.Snapshot(book.Bid, levels)
	asks := b.Snapshot(book.Ask, levels)

	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(int64(seqNum), 10))
	sb.WriteString(", ")
	sb.WriteString(symbol)
	sb.WriteString(", [")
	writeLevels(&sb, bids)
	sb.WriteString("], [")
	writeLevels(&sb, asks)
	sb.WriteString("]")
	return sb.String()
}

func writeLevels(sb *strings.Builder, levels []book.LevelAgg) {
	for i, lvl := range levels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(strconv.FormatInt(int64(lvl.Price), 10))
		sb.WriteString(", ")
		sb.WriteString(strconv.FormatUint(lvl.Volume, 10))
		sb.WriteString(")")
	}
}
