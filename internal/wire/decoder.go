package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/abdoElHodaky/depthfeed/pkg/ferrors"
)

// ErrEndOfStream is returned by Decoder.Next on a clean, header-aligned
// end of input: zero bytes were available where a header was expected.
var ErrEndOfStream = errors.New("wire: end of stream")

// maxBodySize is the largest of the four body layouts; the scratch buffer
// pool is sized to it so every event shares the same pooled buffer.
const maxBodySize = AddUpdateBodySize

var bodyBufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, maxBodySize)
		return &b
	},
}

// Decoder pulls one framed Event at a time off an io.Reader. It is not
// safe for concurrent use; the depth-feed core is single-threaded.
type Decoder struct {
	r      io.Reader
	hdrBuf [HeaderSize]byte
	strict bool // verify msg_size against the expected body length
}

// NewDecoder wraps r. When strict is true (the default posture of this
// reader) a mismatched msg_size is treated as malformed input; when false,
// msg_size is read but ignored, matching the original reader's behavior.
func NewDecoder(r io.Reader, strict bool) *Decoder {
	return &Decoder{r: r, strict: strict}
}

// Next reads and decodes the next event. It returns ErrEndOfStream when
// the stream ends cleanly on a header boundary. Any other error is fatal
// to the stream: a short read mid-record (ferrors.ErrTruncated), an
// unrecognized msg_type (ferrors.ErrUnknownEvent), or in strict mode a
// msg_size that disagrees with the expected body length for msg_type
// (ferrors.ErrMsgSizeMismatch).
func (d *Decoder) Next() (*Event, error) {
	n, err := io.ReadFull(d.r, d.hdrBuf[:])
	if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
		return nil, ErrEndOfStream
	}
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrTruncated, "short read on header")
	}

	hdr := Header{
		SeqNum:  int32(binary.LittleEndian.Uint32(d.hdrBuf[0:4])),
		MsgSize: int32(binary.LittleEndian.Uint32(d.hdrBuf[4:8])),
		MsgType: MsgType(d.hdrBuf[8]),
	}

	bodySize, known := hdr.BodySize()
	if !known {
		return nil, ferrors.Newf(ferrors.ErrUnknownEvent, "unrecognized msg_type %q at seq %d", hdr.MsgType, hdr.SeqNum)
	}
	if d.strict && int(hdr.MsgSize) != bodySize {
		return nil, ferrors.Newf(ferrors.ErrMsgSizeMismatch, "msg_size %d != expected %d for msg_type %q at seq %d", hdr.MsgSize, bodySize, hdr.MsgType, hdr.SeqNum)
	}

	bufPtr := bodyBufPool.Get().(*[]byte)
	body := (*bufPtr)[:bodySize]
	defer bodyBufPool.Put(bufPtr)

	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrTruncated, "short read on body")
	}

	ev := &Event{Header: hdr}
	switch hdr.MsgType {
	case MsgAdd:
		ev.Add = decodeAddUpdate(body)
	case MsgUpdate:
		ev.Update = decodeAddUpdate(body)
	case MsgDelete:
		ev.Delete = decodeDelete(body)
	case MsgTraded:
		ev.Traded = decodeTraded(body)
	}
	return ev, nil
}

func decodeAddUpdate(b []byte) *OrderAdd {
	var sym Symbol
	copy(sym[:], b[0:3])
	return &OrderAdd{
		Symbol:  sym,
		OrderID: binary.LittleEndian.Uint64(b[3:11]),
		Side:    Side(b[11]),
		Size:    binary.LittleEndian.Uint64(b[15:23]),
		Price:   int32(binary.LittleEndian.Uint32(b[23:27])),
	}
}

func decodeDelete(b []byte) *OrderDelete {
	var sym Symbol
	copy(sym[:], b[0:3])
	return &OrderDelete{
		Symbol:  sym,
		OrderID: binary.LittleEndian.Uint64(b[3:11]),
		Side:    Side(b[11]),
	}
}

func decodeTraded(b []byte) *OrderTraded {
	var sym Symbol
	copy(sym[:], b[0:3])
	return &OrderTraded{
		Symbol:  sym,
		OrderID: binary.LittleEndian.Uint64(b[3:11]),
		Side:    Side(b[11]),
		Volume:  binary.LittleEndian.Uint64(b[15:23]),
	}
}
