// This file implements the Epson ESC/POS command byte sequences understood
// by 58mm thermal receipt printers, plus the Phomemo specific US queries.
package printer

// Control characters
const (
	Esc = 0x1B
	GS  = 0x1D
	US  = 0x1F
)

// Horizontal placement of a printed raster image on the paper
type Justify byte

const (
	Left   Justify = 0x00
	Centre Justify = 0x01
	Right  Justify = 0x02
)

// Heat applied by the print head; higher is darker but slower
type Density byte

const (
	Low    Density = 0x01
	Medium Density = 0x03
	High   Density = 0x04
)

// Initialises the printer, clearing any buffered data and modes.
func initPrinter() []byte {
	return []byte{Esc, 0x40}
}

func setJustify(justify Justify) []byte {
	return []byte{Esc, 0x61, byte(justify)}
}

func setDensity(density Density) []byte {
	return []byte{US, 0x11, 0x02, byte(density)}
}

// Prepares the printer to print a raster image. widthBytes is the row stride
// with 8 pixels packed into each byte and heightRows the number of rows.
// Exactly widthBytes*heightRows bytes of image data must follow.
func printBitmapHeader(widthBytes byte, heightRows uint16) []byte {
	return []byte{
		GS, 0x76, 0x30, 0x00,
		widthBytes, 0x00,
		byte(heightRows & 0xFF), byte(heightRows >> 8),
	}
}

// Makes the printer advance the paper by n blank lines.
func feedLines(n byte) []byte {
	return []byte{Esc, 0x64, n}
}

func queryBatteryStatus() []byte {
	return []byte{US, 0x11, 0x08}
}

func queryPaperStatus() []byte {
	return []byte{US, 0x11, 0x11}
}

func queryFirmwareVersion() []byte {
	return []byte{US, 0x11, 0x07}
}
