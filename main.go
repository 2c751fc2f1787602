package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tomgalvin.uk/receiptprint/internal/document"
	"tomgalvin.uk/receiptprint/internal/printer"
	"tomgalvin.uk/receiptprint/internal/receipt"
	"tomgalvin.uk/receiptprint/internal/script"
	"tomgalvin.uk/receiptprint/internal/server"
	"tomgalvin.uk/receiptprint/internal/spool"
)

func main() {
	c, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Exiting", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *config) error {
	f, err := c.loadFont()
	if err != nil {
		return err
	}
	defer f.Close()
	renderer := receipt.New(f, receipt.Config{PaperWidth: c.paperWidth, StrokeThickness: c.strokeThickness})

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}

	if c.scriptPath != "" {
		defer conn.Disconnect()
		return printScript(ctx, renderer, conn, c.scriptPath)
	}
	return serve(ctx, c, renderer, conn)
}

func (c *config) connect(ctx context.Context) (printer.Connection, error) {
	switch {
	case c.outPath != "":
		out, err := os.Create(c.outPath)
		if err != nil {
			return nil, fmt.Errorf("Couldn't create output file:\n%w", err)
		}
		return printer.NewWriterConnection(out), nil
	case c.printerAddress != "":
		slog.Info("Scanning for printer", "address", c.printerAddress)
		return printer.FromBluetoothAddress(ctx, c.printerAddress)
	default:
		slog.Info("Scanning for printer", "name", c.printerName)
		return printer.FromBluetoothName(ctx, c.printerName)
	}
}

func printScript(ctx context.Context, r *receipt.Renderer, conn printer.Connection, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Couldn't open script:\n%w", err)
	}
	defer in.Close()

	d, err := script.Parse(path, in)
	if err != nil {
		return err
	}
	p := printer.NewProgram(printer.DefaultOptions)
	if err := document.Render(r, d, p); err != nil {
		return err
	}
	if err := printer.Print(ctx, conn, p); err != nil {
		return err
	}
	slog.Info("Printed receipt", "script", path, "blocks", len(d.Blocks))
	return nil
}

func serve(ctx context.Context, c *config, renderer *receipt.Renderer, conn printer.Connection) error {
	repo, err := NewRepository(c.dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	worker := spool.NewWorker(repo, conn)
	workerDone := make(chan error, 1)
	go func() { workerDone <- worker.Run(ctx) }()

	logger := slog.Default()
	s := server.NewServer(logger.With("src", "server"), renderer, repo, worker, printer.DefaultOptions)
	if reporter, ok := conn.(server.StatusReporter); ok {
		s.ReportStatusFrom(reporter)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", s.Handler())
	mux.Handle("/", http.FileServer(http.Dir("resources/web")))

	httpServer := http.Server{Addr: c.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting server", "addr", c.addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("Couldn't start server:\n%w", err)
	}
	return <-workerDone
}
