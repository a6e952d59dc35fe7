package probe

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the standard baud rate for the ADC bridge MCU.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 100
	// sampleTimeout bounds how long ReadSamples waits for a single count
	// before giving up on the bridge.
	sampleTimeout = 2 * time.Second
)

// Serial reads raw ADC counts from a serial-attached ADC bridge. The bridge
// streams one decimal count per line; counts are not range-checked here so
// bad hardware input reaches the pipeline visibly.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	samples   chan int
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a new Serial device for the given port.
func NewSerial(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		samples:  make(chan int, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list serial ports")
	}
	return ports, nil
}

// Connect opens the serial port and starts reading counts.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return errors.New("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return errors.Wrapf(err, "failed to open serial port %s", d.port)
	}

	d.conn = port
	d.connected = true

	go d.readCounts()

	return nil
}

// Close closes the connection and stops reading counts.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing serial port")
		}
		d.conn = nil
	}

	d.connected = false
	close(d.samples)

	return nil
}

// IsConnected reports whether the device is connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// ReadSamples collects count raw ADC counts from the bridge.
func (d *Serial) ReadSamples(count int) ([]int, error) {
	if !d.IsConnected() {
		return nil, errors.New("not connected")
	}
	if count <= 0 {
		return nil, errors.Errorf("sample count must be positive, got %d", count)
	}

	out := make([]int, 0, count)
	for len(out) < count {
		select {
		case raw, ok := <-d.samples:
			if !ok {
				return nil, errors.New("device closed while reading samples")
			}
			out = append(out, raw)
		case <-time.After(sampleTimeout):
			return nil, errors.Errorf("timed out waiting for sample %d of %d", len(out)+1, count)
		}
	}
	return out, nil
}

// readCounts reads newline-delimited decimal counts from the serial port
// until the context is cancelled. Malformed lines are logged and skipped.
func (d *Serial) readCounts() {
	scanner := bufio.NewScanner(d.conn)

	for scanner.Scan() {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		raw, err := strconv.Atoi(line)
		if err != nil {
			logrus.WithField("line", line).Debug("Skipping malformed sample line")
			continue
		}

		select {
		case d.samples <- raw:
		default:
			logrus.Debug("Sample buffer full, dropping sample")
		}
	}

	if err := scanner.Err(); err != nil && d.ctx.Err() == nil {
		logrus.WithError(err).Warn("Serial read error")
	}
}
