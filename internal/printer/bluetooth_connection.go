// This connection assumes the server only talks to a single bluetooth
// printer at a time.
package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tinygo.org/x/bluetooth"
)

type characteristic byte

const (
	service  characteristic = 0x00
	writer   characteristic = 0x02
	notifier characteristic = 0x03
)

// Largest single write sent to the writer characteristic. Longer commands
// are split, which the printer reassembles.
const DefaultWriteSize = 128

func getUUID(c characteristic) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte{
		0x00, 0x00, 0xff, byte(c), 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
	})
}

type BluetoothConnection struct {
	adapter   *bluetooth.Adapter
	address   bluetooth.Address
	writeSize int

	mu        sync.Mutex
	connected bool
	device    bluetooth.Device
	writer    bluetooth.DeviceCharacteristic

	// notifications arrive on their own goroutine, possibly mid write
	statusMu sync.Mutex
	status   Status
}

func newBluetoothConnection() (*BluetoothConnection, error) {
	adapter := bluetooth.DefaultAdapter

	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("Couldn't enable Bluetooth:\n%w", err)
	}

	conn := &BluetoothConnection{
		adapter:   adapter,
		writeSize: DefaultWriteSize,
		status:    Status{BatteryLevel: -1},
	}
	adapter.SetConnectHandler(func(d bluetooth.Device, connected bool) {
		if connected {
			slog.Info("Connected to printer", "address", d.Address.String())
			return
		}
		conn.mu.Lock()
		defer conn.mu.Unlock()
		if d.Address == conn.address && conn.connected {
			slog.Info("Printer disconnected", "address", d.Address.String())
			conn.connected = false
		}
	})

	return conn, nil
}

// FromBluetoothName scans until a device advertising name is found or ctx
// is cancelled.
func FromBluetoothName(ctx context.Context, name string) (*BluetoothConnection, error) {
	return fromScan(ctx, func(result bluetooth.ScanResult) bool {
		return result.LocalName() == name
	})
}

// FromBluetoothAddress scans until the device with the given address is
// found or ctx is cancelled. Addresses are MACs on Linux and Windows and
// UUIDs on macOS.
func FromBluetoothAddress(ctx context.Context, address string) (*BluetoothConnection, error) {
	return fromScan(ctx, func(result bluetooth.ScanResult) bool {
		return strings.EqualFold(result.Address.String(), address)
	})
}

func fromScan(ctx context.Context, match func(bluetooth.ScanResult) bool) (*BluetoothConnection, error) {
	c, err := newBluetoothConnection()
	if err != nil {
		return nil, err
	}

	devices := make(chan bluetooth.ScanResult, 1)

	go func() {
		err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if match(result) {
				slog.Info("Found device",
					"deviceName", result.LocalName(),
					"address", result.Address.String(),
				)
				adapter.StopScan()
				select {
				case devices <- result:
				default:
				}
			}
		})
		if err != nil {
			slog.Error("Failed to scan for devices", "err", err)
			close(devices)
		}
	}()

	dev, err := awaitDevice(ctx, devices, c.adapter.StopScan)
	if err != nil {
		return nil, err
	}
	c.address = dev.Address
	return c, nil
}

// awaitDevice waits for a scan to find a device. If ctx is cancelled first
// the scan is stopped with stop.
func awaitDevice(ctx context.Context, devices <-chan bluetooth.ScanResult, stop func() error) (bluetooth.ScanResult, error) {
	select {
	case dev, ok := <-devices:
		if !ok {
			return bluetooth.ScanResult{}, errors.New("No devices found")
		}
		return dev, nil
	case <-ctx.Done():
		if err := stop(); err != nil {
			slog.Warn("Couldn't stop scanning", "err", err)
		}
		return bluetooth.ScanResult{}, fmt.Errorf("Scan cancelled:\n%w", ctx.Err())
	}
}

func (c *BluetoothConnection) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	slog.Debug("Connecting to device...")
	device, err := c.adapter.Connect(c.address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("Couldn't connect to device:\n%w", err)
	}

	slog.Debug("Discovering service...")
	services, err := device.DiscoverServices([]bluetooth.UUID{getUUID(service)})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("Couldn't discover printer service:\n%w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return errors.New("Printer service not found")
	}

	slog.Debug("Discovering characteristics...")
	characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{getUUID(writer), getUUID(notifier)})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("Couldn't discover printer characteristics:\n%w", err)
	}
	if len(characteristics) < 2 {
		device.Disconnect()
		return errors.New("Printer characteristics not found")
	}

	err = characteristics[1].EnableNotifications(func(data []byte) {
		c.handleNotification(data)
	})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("Couldn't enable notifications:\n%w", err)
	}

	c.device = device
	c.writer = characteristics[0]
	c.connected = true

	// ask for status so the log shows what state the printer is in
	for _, q := range [][]byte{queryFirmwareVersion(), queryBatteryStatus(), queryPaperStatus()} {
		if err := c.write(q); err != nil {
			slog.Warn("Couldn't query printer status", "err", err)
			break
		}
	}
	return nil
}

func (c *BluetoothConnection) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return errors.New("Printer is not connected")
	}
	return c.write(data)
}

func (c *BluetoothConnection) write(data []byte) error {
	for _, chunk := range chunks(data, c.writeSize) {
		if _, err := c.writer.WriteWithoutResponse(chunk); err != nil {
			return fmt.Errorf("Couldn't write data:\n%w", err)
		}
	}
	slog.Debug("Wrote data to device", "size", len(data))
	return nil
}

func (c *BluetoothConnection) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	device := c.device
	// the connect handler takes the lock when the disconnect event fires
	c.mu.Unlock()
	return device.Disconnect()
}

// Status returns the last values the printer reported.
func (c *BluetoothConnection) Status() Status {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.status
}

func (c *BluetoothConnection) handleNotification(data []byte) {
	n := decodeNotification(data)

	c.statusMu.Lock()
	c.status.apply(n)
	c.statusMu.Unlock()

	switch n.Kind {
	case UnknownNotification:
		slog.Info("Received unknown notification", "data", fmt.Sprintf("%x", data))
	case Acknowledged:
	default:
		slog.Debug("Printer notification", "kind", n.Kind, "value", n.Value)
	}
}

// chunks splits data into pieces of at most size bytes without copying.
func chunks(data []byte, size int) [][]byte {
	if size <= 0 || len(data) <= size {
		return [][]byte{data}
	}
	out := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > size {
		out = append(out, data[:size])
		data = data[size:]
	}
	return append(out, data)
}
