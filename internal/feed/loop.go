// Package feed drives the event loop: read one event, dispatch it to the
// order book, render and emit a snapshot, repeat until the decoder signals
// clean end-of-stream or a fatal decode error.
package feed

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/abdoElHodaky/depthfeed/internal/book"
	"github.com/abdoElHodaky/depthfeed/internal/snapshot"
	"github.com/abdoElHodaky/depthfeed/internal/telemetry"
	"github.com/abdoElHodaky/depthfeed/internal/wire"
	"github.com/abdoElHodaky/depthfeed/pkg/ferrors"
)

// Loop owns the OrderBook and drives it from a Decoder, writing a
// snapshot to Out after every applied event.
type Loop struct {
	Book    *book.OrderBook
	Decoder *wire.Decoder
	Out     io.Writer
	Levels  int

	Logger  *zap.Logger
	Metrics *telemetry.Counters
}

// Run drives the loop to completion. It returns nil on clean end of
// stream (including one observed via ctx cancellation between events) and
// a non-nil error on a fatal decode failure; cmd/depthfeed maps both
// outcomes to exit code 0, reserving non-zero for startup failures.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			l.Logger.Info("stopping event loop: context canceled")
			return nil
		}

		ev, err := l.Decoder.Next()
		if err == wire.ErrEndOfStream {
			l.Logger.Info("clean end of stream")
			return nil
		}
		if err != nil {
			l.Metrics.IncDecodeError()
			l.Logger.Error("fatal decode error, terminating stream", zap.Error(err))
			return err
		}

		symbol, msgTypeLabel := l.apply(ev)
		l.Metrics.IncEvent(msgTypeLabel)

		line := snapshot.Render(ev.Header.SeqNum, symbol, l.Levels, l.Book)
		if _, err := fmt.Fprintln(l.Out, line); err != nil {
			return ferrors.Wrap(err, ferrors.ErrStartup, "writing snapshot sink")
		}
	}
}

// apply dispatches one decoded event to the book and returns the
// event's symbol (forwarded verbatim into the snapshot) and a label for
// the events-processed counter.
func (l *Loop) apply(ev *wire.Event) (symbol string, msgTypeLabel string) {
	switch ev.Header.MsgType {
	case wire.MsgAdd:
		a := ev.Add
		l.Book.Add(book.Order{OrderID: a.OrderID, Volume: a.Size, Price: a.Price}, sideOf(a.Side))
		return a.Symbol.String(), "ADD"
	case wire.MsgUpdate:
		u := ev.Update
		l.Book.Update(u.OrderID, u.Size, u.Price)
		return u.Symbol.String(), "UPDATE"
	case wire.MsgDelete:
		d := ev.Delete
		l.Book.Delete(d.OrderID)
		return d.Symbol.String(), "DELETE"
	case wire.MsgTraded:
		t := ev.Traded
		l.Book.Execute(t.OrderID, t.Volume)
		return t.Symbol.String(), "TRADED"
	default:
		return "", "UNKNOWN"
	}
}

func sideOf(s wire.Side) book.Side {
	if s.IsBid() {
		return book.Bid
	}
	return book.Ask
}
