package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tomgalvin.uk/receiptprint/internal/font"
	"tomgalvin.uk/receiptprint/internal/receipt"
)

type config struct {
	addr            string
	dbPath          string
	printerName     string
	printerAddress  string
	outPath         string
	paperWidth      int
	fontName        string
	boldFontPath    string
	strokeThickness int
	logLevel        slog.Level
	scriptPath      string
}

func parseFlags(args []string) (*config, error) {
	c := config{}
	fs := flag.NewFlagSet("receiptprint", flag.ContinueOnError)
	fs.StringVar(&c.addr, "addr", ":8080", "address for the HTTP server to listen on")
	fs.StringVar(&c.dbPath, "db", "app.db", "path of the SQLite print queue")
	fs.StringVar(&c.printerName, "printer", "T02", "bluetooth name of the printer to scan for")
	fs.StringVar(&c.printerAddress, "printer-address", "", "bluetooth address of the printer, instead of scanning by name")
	fs.StringVar(&c.outPath, "out", "", "write printer commands to this file instead of a bluetooth printer")
	fs.IntVar(&c.paperWidth, "paper-width", receipt.DefaultPaperWidth, "printable width in dots")
	fs.StringVar(&c.fontName, "font", "goregular", "builtin font (goregular, gomono) or path to a TTF/OTF file")
	fs.StringVar(&c.boldFontPath, "bold-font", "", "path to the bold TTF/OTF file when -font is a path")
	fs.IntVar(&c.strokeThickness, "stroke-thickness", receipt.DefaultStrokeThickness, "thickness of rules in dots")
	fs.TextVar(&c.logLevel, "log-level", slog.LevelInfo, "minimum log level (debug, info, warn, error)")
	fs.StringVar(&c.scriptPath, "script", "", "print this receipt script once and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.paperWidth <= 0 || c.paperWidth%8 != 0 {
		return nil, fmt.Errorf("-paper-width must be a positive multiple of 8, got %d", c.paperWidth)
	}
	if c.strokeThickness <= 0 {
		return nil, fmt.Errorf("-stroke-thickness must be positive, got %d", c.strokeThickness)
	}
	return &c, nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	default:
		return false
	}
}

func (c *config) loadFont() (*font.Provider, error) {
	if !isFontFile(c.fontName) {
		return font.Builtin(c.fontName)
	}

	regular, err := os.ReadFile(c.fontName)
	if err != nil {
		return nil, fmt.Errorf("Couldn't read font:\n%w", err)
	}
	var bold []byte
	if c.boldFontPath != "" {
		if bold, err = os.ReadFile(c.boldFontPath); err != nil {
			return nil, fmt.Errorf("Couldn't read bold font:\n%w", err)
		}
	}
	return font.NewProvider(regular, bold)
}
