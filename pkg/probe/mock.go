package probe

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// MockConfig configures the simulated probe.
type MockConfig struct {
	Voltage    float64 // Simulated probe voltage (V)
	NoiseLevel float64 // Uniform noise amplitude (V)
	VRef       float64 // ADC reference voltage (V)
	ADCMax     float64 // Full-scale ADC count
}

// Mock simulates a pH probe ADC for testing and development. It produces
// counts around a configured voltage with uniform noise, clamped to the
// ADC's physical range the way real hardware would saturate.
type Mock struct {
	cfg MockConfig

	mu        sync.RWMutex
	rng       *rand.Rand
	connected bool
}

// NewMock creates a new mocked device instance. Zero-valued config fields
// fall back to a quiet probe near neutral on a 12-bit ADC.
func NewMock(cfg MockConfig) *Mock {
	if cfg.VRef == 0 {
		cfg.VRef = 3.3
	}
	if cfg.ADCMax == 0 {
		cfg.ADCMax = 4095
	}
	if cfg.Voltage == 0 {
		cfg.Voltage = 1.65
	}

	return &Mock{
		cfg: cfg,
		rng: rand.New(rand.NewSource(1)),
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return errors.New("already connected")
	}
	m.connected = true
	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

// IsConnected reports whether the device is connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetVoltage changes the simulated probe voltage, e.g. to emulate moving
// the probe between buffer solutions.
func (m *Mock) SetVoltage(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Voltage = v
}

// ReadSamples returns count simulated raw ADC counts.
func (m *Mock) ReadSamples(count int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil, errors.New("not connected")
	}
	if count <= 0 {
		return nil, errors.Errorf("sample count must be positive, got %d", count)
	}

	out := make([]int, count)
	for i := range out {
		v := m.cfg.Voltage + (m.rng.Float64()*2-1)*m.cfg.NoiseLevel
		raw := math.Round(v / m.cfg.VRef * m.cfg.ADCMax)

		// A real ADC saturates at its rails.
		if raw < 0 {
			raw = 0
		}
		if raw > m.cfg.ADCMax {
			raw = m.cfg.ADCMax
		}
		out[i] = int(raw)
	}
	return out, nil
}
