package printer

import (
	"bytes"
	"testing"
)

func TestDecodeNotification(t *testing.T) {
	cases := []struct {
		data     []byte
		expected Notification
	}{
		{[]byte{0x02, 0xb6, 0x00}, Notification{Kind: Ready}},
		{[]byte{0x1a, 0x0f, 0x0c}, Notification{Kind: Finished}},
		{[]byte{0x1a, 0x04, 0x5a}, Notification{Kind: BatteryLevel, Value: "90"}},
		{[]byte{0x1a, 0x07, 0x01, 0x02, 0x03}, Notification{Kind: FirmwareVersion, Value: "1.2.3"}},
		{[]byte{0x1a, 0x06, 0x89}, Notification{Kind: PaperStatus, Value: "loaded"}},
		{[]byte{0x1a, 0x06, 0x88}, Notification{Kind: PaperStatus, Value: "empty"}},
		{[]byte{0x01, 0x01}, Notification{Kind: Acknowledged}},
		{[]byte{0x1a, 0x04}, Notification{Kind: UnknownNotification, Value: "1a04"}},
		{[]byte{0xee}, Notification{Kind: UnknownNotification, Value: "ee"}},
	}
	for _, c := range cases {
		if n := decodeNotification(c.data); n != c.expected {
			t.Errorf("%x: expected %+v, got %+v", c.data, c.expected, n)
		}
	}
}

func TestStatusApply(t *testing.T) {
	s := Status{BatteryLevel: -1}
	for _, d := range [][]byte{
		{0x1a, 0x04, 0x32},
		{0x1a, 0x07, 0x04, 0x00, 0x01},
		{0x1a, 0x06, 0x89},
		{0x02, 0xb6, 0x00},
	} {
		s.apply(decodeNotification(d))
	}
	expected := Status{BatteryLevel: 50, FirmwareVersion: "4.0.1", PaperLoaded: true, Ready: true}
	if s != expected {
		t.Errorf("expected %+v, got %+v", expected, s)
	}
}

func TestChunks(t *testing.T) {
	data := bytes.Repeat([]byte{1}, 300)
	parts := chunks(data, 128)
	if len(parts) != 3 || len(parts[0]) != 128 || len(parts[2]) != 44 {
		t.Errorf("unexpected chunk sizes")
	}
	if !bytes.Equal(bytes.Join(parts, nil), data) {
		t.Errorf("expected chunks to reassemble")
	}
	if len(chunks([]byte{1, 2}, 128)) != 1 {
		t.Errorf("expected a short write to stay whole")
	}
}
