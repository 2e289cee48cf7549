package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/depthfeed/pkg/ferrors"
)

func writeHeader(buf *bytes.Buffer, seq, msgSize int32, msgType byte) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(seq))
	buf.Write(tmp[:])
	binary.LittleEndian.PutUint32(tmp[:], uint32(msgSize))
	buf.Write(tmp[:])
	buf.WriteByte(msgType)
}

func writeAddBody(buf *bytes.Buffer, symbol string, orderID uint64, side byte, size uint64, price int32) {
	buf.WriteString(symbol)
	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], orderID)
	buf.Write(u64[:])
	buf.WriteByte(side)
	buf.Write(make([]byte, 3))
	binary.LittleEndian.PutUint64(u64[:], size)
	buf.Write(u64[:])
	var i32 [4]byte
	binary.LittleEndian.PutUint32(i32[:], uint32(price))
	buf.Write(i32[:])
	buf.Write(make([]byte, 4))
}

func writeDeleteBody(buf *bytes.Buffer, symbol string, orderID uint64, side byte) {
	buf.WriteString(symbol)
	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], orderID)
	buf.Write(u64[:])
	buf.WriteByte(side)
	buf.Write(make([]byte, 3))
}

func writeTradedBody(buf *bytes.Buffer, symbol string, orderID uint64, side byte, volume uint64) {
	buf.WriteString(symbol)
	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], orderID)
	buf.Write(u64[:])
	buf.WriteByte(side)
	buf.Write(make([]byte, 3))
	binary.LittleEndian.PutUint64(u64[:], volume)
	buf.Write(u64[:])
}

func TestDecoder_DecodesEachEventType(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, 1, AddUpdateBodySize, 'A')
	writeAddBody(&buf, "AAA", 1, 'B', 100, 10050)
	writeHeader(&buf, 2, AddUpdateBodySize, 'U')
	writeAddBody(&buf, "AAA", 1, 'B', 50, 10049)
	writeHeader(&buf, 3, DeleteBodySize, 'D')
	writeDeleteBody(&buf, "AAA", 1, 'B')
	writeHeader(&buf, 4, TradedBodySize, 'E')
	writeTradedBody(&buf, "AAA", 2, 'S', 40)

	d := NewDecoder(&buf, true)

	ev, err := d.Next()
	require.NoError(t, err)
	require.NotNil(t, ev.Add)
	assert.Equal(t, int32(1), ev.Header.SeqNum)
	assert.Equal(t, uint64(1), ev.Add.OrderID)
	assert.Equal(t, SideBuy, ev.Add.Side)
	assert.Equal(t, uint64(100), ev.Add.Size)
	assert.Equal(t, int32(10050), ev.Add.Price)
	assert.Equal(t, "AAA", ev.Add.Symbol.String())

	ev, err = d.Next()
	require.NoError(t, err)
	require.NotNil(t, ev.Update)
	assert.Equal(t, int32(10049), ev.Update.Price)

	ev, err = d.Next()
	require.NoError(t, err)
	require.NotNil(t, ev.Delete)
	assert.Equal(t, SideBuy, ev.Delete.Side)

	ev, err = d.Next()
	require.NoError(t, err)
	require.NotNil(t, ev.Traded)
	assert.Equal(t, uint64(40), ev.Traded.Volume)

	_, err = d.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestDecoder_CleanEndOfStreamOnEmptyInput(t *testing.T) {
	d := NewDecoder(bytes.NewReader(nil), true)
	_, err := d.Next()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestDecoder_TruncatedHeaderIsFatal(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte{1, 2, 3}), true)
	_, err := d.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndOfStream)
	var fe *ferrors.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ErrTruncated, fe.Code)
}

func TestDecoder_TruncatedBodyIsFatal(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, 1, AddUpdateBodySize, 'A')
	buf.Write(make([]byte, 5)) // far short of the 31-byte ADD body

	d := NewDecoder(&buf, true)
	_, err := d.Next()
	require.Error(t, err)
	var fe *ferrors.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ErrTruncated, fe.Code)
}

func TestDecoder_UnknownMsgTypeIsFatal(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, 1, 0, 'Z')

	d := NewDecoder(&buf, true)
	_, err := d.Next()
	require.Error(t, err)
	var fe *ferrors.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ErrUnknownEvent, fe.Code)
}

func TestDecoder_StrictMsgSizeMismatchIsFatal(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, 1, AddUpdateBodySize+1, 'A')
	writeAddBody(&buf, "AAA", 1, 'B', 100, 10050)

	d := NewDecoder(&buf, true)
	_, err := d.Next()
	require.Error(t, err)
	var fe *ferrors.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ErrMsgSizeMismatch, fe.Code)
}

func TestDecoder_PermissiveModeIgnoresMsgSize(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, 1, 999, 'A')
	writeAddBody(&buf, "AAA", 1, 'B', 100, 10050)

	d := NewDecoder(&buf, false)
	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ev.Add.OrderID)
}

func TestDecoder_PartialHeaderReadTreatedAsTruncated(t *testing.T) {
	// io.ReadFull returns ErrUnexpectedEOF for a partial read; the decoder
	// must distinguish that from the zero-byte clean EOF case.
	var partial bytes.Buffer
	writeHeader(&partial, 1, AddUpdateBodySize, 'A')
	short := partial.Bytes()[:HeaderSize-2]

	d := NewDecoder(bytes.NewReader(short), true)
	_, err := d.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, ErrEndOfStream)
	var fe *ferrors.FeedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ferrors.ErrTruncated, fe.Code)
}
