package server

import (
	"tomgalvin.uk/receiptprint/internal/printer"
)

type printerStatusJson struct {
	FirmwareVersion string `json:"firmwareVersion,omitempty"`
	// -1 until the printer has reported it
	BatteryLevel int  `json:"batteryLevel"`
	PaperLoaded  bool `json:"paperLoaded"`
	Ready        bool `json:"ready"`
}

func mapStatusToJson(s printer.Status) printerStatusJson {
	return printerStatusJson{
		FirmwareVersion: s.FirmwareVersion,
		BatteryLevel:    s.BatteryLevel,
		PaperLoaded:     s.PaperLoaded,
		Ready:           s.Ready,
	}
}
