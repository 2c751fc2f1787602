package printer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Connection is a link to a printer that commands can be written to.
type Connection interface {
	Connect() error
	Write(data []byte) error
	Disconnect() error
}

// WriterConnection sends commands to any io.Writer, such as a file, a serial
// device or a buffer in tests.
type WriterConnection struct {
	w io.Writer
}

func NewWriterConnection(w io.Writer) *WriterConnection {
	return &WriterConnection{w: w}
}

func (c *WriterConnection) Connect() error {
	return nil
}

func (c *WriterConnection) Write(data []byte) error {
	_, err := c.w.Write(data)
	return err
}

// Disconnect closes the underlying writer if it is an io.Closer.
func (c *WriterConnection) Disconnect() error {
	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Print connects and writes every command of a finished program in order.
// The connection is left open for the next receipt. Cancelling ctx stops
// between commands.
func Print(ctx context.Context, conn Connection, p *Program) error {
	if err := conn.Connect(); err != nil {
		return fmt.Errorf("Couldn't connect to printer:\n%w", err)
	}
	p.Finish()

	commands := p.Commands()
	for i, command := range commands {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("Print cancelled after %d of %d commands:\n%w", i, len(commands), err)
		}
		if err := conn.Write(command); err != nil {
			return fmt.Errorf("Couldn't write command %d of %d:\n%w", i+1, len(commands), err)
		}
	}
	slog.Debug("Wrote program to printer", "commands", len(commands))
	return nil
}

// Size of each write Send makes, so a cancelled context is noticed between
// parts of a large job.
const sendChunkSize = 4096

// Send connects and writes a previously built program stream.
func Send(ctx context.Context, conn Connection, data []byte) error {
	if err := conn.Connect(); err != nil {
		return fmt.Errorf("Couldn't connect to printer:\n%w", err)
	}
	for _, chunk := range chunks(data, sendChunkSize) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("Print cancelled:\n%w", err)
		}
		if err := conn.Write(chunk); err != nil {
			return fmt.Errorf("Couldn't write to printer:\n%w", err)
		}
	}
	slog.Debug("Sent data to printer", "size", len(data))
	return nil
}
