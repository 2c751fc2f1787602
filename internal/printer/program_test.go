package printer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"tomgalvin.uk/receiptprint/internal/bitmap"
)

var preamble = []byte{
	Esc, 0x40,
	Esc, 0x61, 0x00,
	US, 0x11, 0x02, 0x03,
}

func aSolidBitmap(t *testing.T, width, height int) *bitmap.PackedBitmap {
	t.Helper()
	b, err := bitmap.New(width, height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.FillRect(0, 0, width, height)
	return bitmap.PackBitmap(b)
}

func TestProgramPreamble(t *testing.T) {
	p := NewProgram(DefaultOptions)
	if !bytes.Equal(p.Bytes(), preamble) {
		t.Errorf("expected %x, got %x", preamble, p.Bytes())
	}
}

func TestProgramBitmap(t *testing.T) {
	p := NewProgram(DefaultOptions)
	if err := p.Bitmap(aSolidBitmap(t, 10, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := append(bytes.Clone(preamble),
		GS, 0x76, 0x30, 0x00, 0x02, 0x00, 0x02, 0x00,
		0xFF, 0xC0, 0xFF, 0xC0,
	)
	if !bytes.Equal(p.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, p.Bytes())
	}
}

func TestProgramSplitsTallBitmaps(t *testing.T) {
	p := NewProgram(DefaultOptions)
	if err := p.Bitmap(aSolidBitmap(t, 8, 600)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	commands := p.Commands()[3:]
	if len(commands) != 6 {
		t.Fatalf("expected 3 headers and 3 data blocks, got %v commands", len(commands))
	}
	for i, rows := range []uint16{256, 256, 88} {
		if !bytes.Equal(commands[2*i], printBitmapHeader(1, rows)) {
			t.Errorf("slice %v: unexpected header %x", i, commands[2*i])
		}
		if len(commands[2*i+1]) != int(rows) {
			t.Errorf("slice %v: expected %v bytes, got %v", i, rows, len(commands[2*i+1]))
		}
	}
}

func TestProgramEmptyBitmap(t *testing.T) {
	p := NewProgram(DefaultOptions)
	if err := p.Bitmap(aSolidBitmap(t, 0, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Commands()) != 3 {
		t.Errorf("expected no raster commands, got %x", p.Bytes())
	}
}

func TestProgramRejectsWideBitmap(t *testing.T) {
	p := NewProgram(DefaultOptions)
	if err := p.Bitmap(aSolidBitmap(t, 256*8, 1)); err == nil {
		t.Errorf("expected an error for a 256 byte stride")
	}
}

func TestProgramFeedResetFinish(t *testing.T) {
	p := NewProgram(Options{Justify: Centre, Density: Low, TrailingFeed: 2})
	if err := p.Feed(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Feed(300); err == nil {
		t.Errorf("expected an error feeding 300 lines")
	}
	p.Reset()
	p.Finish()
	p.Finish()

	start := []byte{Esc, 0x40, Esc, 0x61, 0x01, US, 0x11, 0x02, 0x01}
	var expected []byte
	expected = append(expected, start...)
	expected = append(expected, Esc, 0x64, 5)
	expected = append(expected, start...)
	expected = append(expected, Esc, 0x64, 2)
	if !bytes.Equal(p.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, p.Bytes())
	}
}

type recordingConnection struct {
	connects int
	writes   [][]byte
	failAt   int
}

func (c *recordingConnection) Connect() error {
	c.connects++
	return nil
}

func (c *recordingConnection) Write(data []byte) error {
	if c.failAt > 0 && len(c.writes)+1 == c.failAt {
		return errors.New("write failed")
	}
	c.writes = append(c.writes, data)
	return nil
}

func (c *recordingConnection) Disconnect() error {
	return nil
}

func TestPrint(t *testing.T) {
	p := NewProgram(DefaultOptions)
	p.Bitmap(aSolidBitmap(t, 8, 1))

	conn := &recordingConnection{}
	if err := Print(context.Background(), conn, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.connects != 1 {
		t.Errorf("expected one connect, got %v", conn.connects)
	}
	if !bytes.Equal(bytes.Join(conn.writes, nil), p.Bytes()) {
		t.Errorf("expected the whole program to be written")
	}
	if last := conn.writes[len(conn.writes)-1]; !bytes.Equal(last, feedLines(DefaultOptions.TrailingFeed)) {
		t.Errorf("expected a trailing feed, got %x", last)
	}
}

func TestPrintWriteFailure(t *testing.T) {
	conn := &recordingConnection{failAt: 2}
	if err := Print(context.Background(), conn, NewProgram(DefaultOptions)); err == nil {
		t.Errorf("expected the write failure to be returned")
	}
	if len(conn.writes) != 1 {
		t.Errorf("expected writing to stop at the failure, got %v writes", len(conn.writes))
	}
}

func TestPrintCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conn := &recordingConnection{}
	if err := Print(ctx, conn, NewProgram(DefaultOptions)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWriterConnection(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgram(DefaultOptions)
	if err := Print(context.Background(), NewWriterConnection(&buf), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), p.Bytes()) {
		t.Errorf("expected %x, got %x", p.Bytes(), buf.Bytes())
	}
}

func TestSend(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, sendChunkSize+10)
	conn := &recordingConnection{}
	if err := Send(context.Background(), conn, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.writes) != 2 || !bytes.Equal(bytes.Join(conn.writes, nil), data) {
		t.Errorf("expected data to be sent in two writes, got %v", len(conn.writes))
	}
}
