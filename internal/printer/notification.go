package printer

import (
	"bytes"
	"fmt"
	"strconv"
)

type NotificationKind string

const (
	UnknownNotification NotificationKind = "unknown"
	Ready               NotificationKind = "ready"
	Finished            NotificationKind = "finished"
	Acknowledged        NotificationKind = "acknowledged"
	BatteryLevel        NotificationKind = "battery"
	FirmwareVersion     NotificationKind = "firmware"
	PaperStatus         NotificationKind = "paper"
	DeviceInfo          NotificationKind = "info"
)

// Notification is one decoded message from the printer's notify
// characteristic.
type Notification struct {
	Kind  NotificationKind
	Value string
}

// Status is the latest state reported by the printer. BatteryLevel is -1
// until the printer has reported it.
type Status struct {
	BatteryLevel    int
	FirmwareVersion string
	PaperLoaded     bool
	Ready           bool
}

func (s *Status) apply(n Notification) {
	switch n.Kind {
	case Ready:
		s.Ready = true
	case BatteryLevel:
		if level, err := strconv.Atoi(n.Value); err == nil {
			s.BatteryLevel = level
		}
	case FirmwareVersion:
		s.FirmwareVersion = n.Value
	case PaperStatus:
		s.PaperLoaded = n.Value == "loaded"
	}
}

func hasPrefix(d []byte, p ...byte) bool {
	return len(d) >= len(p) && bytes.Equal(d[:len(p)], p)
}

func decodeNotification(d []byte) Notification {
	switch {
	case hasPrefix(d, 0x02, 0xb6, 0x00):
		return Notification{Kind: Ready}
	case hasPrefix(d, 0x1a, 0x0f, 0x0c):
		return Notification{Kind: Finished}
	case hasPrefix(d, 0x1a, 0x3b, 0x04):
		// only sent by later firmware
		return Notification{Kind: DeviceInfo, Value: fmt.Sprintf("%x", d[3:])}
	case hasPrefix(d, 0x1a, 0x04) && len(d) >= 3:
		return Notification{Kind: BatteryLevel, Value: fmt.Sprint(d[2])}
	case hasPrefix(d, 0x1a, 0x07) && len(d) >= 5:
		return Notification{Kind: FirmwareVersion, Value: fmt.Sprintf("%v.%v.%v", d[2], d[3], d[4])}
	case hasPrefix(d, 0x1a, 0x06) && len(d) >= 3 && (d[2] == 0x88 || d[2] == 0x89):
		if d[2]&1 == 1 {
			return Notification{Kind: PaperStatus, Value: "loaded"}
		}
		return Notification{Kind: PaperStatus, Value: "empty"}
	case hasPrefix(d, 0x01, 0x01):
		return Notification{Kind: Acknowledged}
	default:
		return Notification{Kind: UnknownNotification, Value: fmt.Sprintf("%x", d)}
	}
}
