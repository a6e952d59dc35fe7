package ph

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/wnccnasa/FishCam/pkg/calib"
	"github.com/wnccnasa/FishCam/pkg/probe"
)

// ErrNotCalibrated indicates a pH conversion was requested before any
// calibration parameters were loaded. Voltage conversion stays available.
var ErrNotCalibrated = errors.New("not calibrated")

// DefaultSampleCount is how many raw counts one reading averages over.
const DefaultSampleCount = 40

// Reading is a single converted measurement.
type Reading struct {
	Voltage float64 // V
	PH      float64
}

// Options configures a Meter. Zero values fall back to the Grove Base Hat
// defaults, so Options{} is usable directly.
type Options struct {
	VRef         float64 // ADC reference voltage used before calibration (V)
	ADCMax       float64 // full-scale ADC count used before calibration
	SampleCount  int     // raw counts per reading; trades responsiveness for smoothness
	TrimOutliers bool    // drop min/max counts before averaging
}

// Meter converts bursts of raw ADC counts into pH readings using the
// currently loaded calibration. It starts uncalibrated: raw and voltage
// conversions work, pH conversion returns ErrNotCalibrated until parameters
// are loaded or set.
//
// Parameter replacement is an atomic swap behind a RWMutex; in-flight
// conversions keep the snapshot they started with.
type Meter struct {
	mu         sync.RWMutex
	params     calib.Params
	calibrated bool

	vref   float64
	adcMax float64

	sampleCount  int
	trimOutliers bool
}

// New creates an uncalibrated Meter.
func New(opts Options) *Meter {
	if opts.VRef == 0 {
		opts.VRef = calib.DefaultVRef
	}
	if opts.ADCMax == 0 {
		opts.ADCMax = calib.DefaultADCMax
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = DefaultSampleCount
	}

	return &Meter{
		vref:         opts.VRef,
		adcMax:       opts.ADCMax,
		sampleCount:  opts.SampleCount,
		trimOutliers: opts.TrimOutliers,
	}
}

// SetParams adopts new calibration parameters, transitioning the meter to
// the calibrated state. Invalid parameters are rejected and the previous
// state is kept.
func (m *Meter) SetParams(p calib.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.params = p
	m.calibrated = true
	m.vref = p.VRef
	m.adcMax = p.ADCMax
	return nil
}

// Load reads calibration parameters from a flat key-value file and adopts
// them. On failure the meter keeps its previous parameters; a meter that
// was calibrated stays calibrated with the last known good values.
func (m *Meter) Load(path string) error {
	p, err := calib.LoadFile(path)
	if err != nil {
		return err
	}
	return m.SetParams(p)
}

// Calibrated reports whether pH conversion is available.
func (m *Meter) Calibrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calibrated
}

// Params returns a snapshot of the current calibration and whether the
// meter is calibrated at all.
func (m *Meter) Params() (calib.Params, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params, m.calibrated
}

// ToVoltage converts an averaged raw count to a voltage using the current
// scale references. Works in both states.
func (m *Meter) ToVoltage(averagedRaw float64) (float64, error) {
	m.mu.RLock()
	vref, adcMax := m.vref, m.adcMax
	m.mu.RUnlock()

	return calib.VoltageFromRaw(averagedRaw, vref, adcMax)
}

// ToPH converts a voltage to pH with the current calibration. The result is
// not clamped to [0, 14]; implausible values are the caller's to flag. A
// non-finite result is reported as an error, never returned as a reading.
func (m *Meter) ToPH(voltage float64) (float64, error) {
	m.mu.RLock()
	p, calibrated := m.params, m.calibrated
	m.mu.RUnlock()

	if !calibrated {
		return 0, errors.Wrap(ErrNotCalibrated, "load calibration before converting to pH")
	}

	value := p.Slope*calib.CenteredMV(voltage, p.CenterVoltage) + p.Offset
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Wrapf(calib.ErrInvalidParameter, "pH conversion produced non-finite value %g", value)
	}
	return value, nil
}

// ReadVoltage takes one burst from the device and returns the averaged
// voltage. Available while uncalibrated.
func (m *Meter) ReadVoltage(dev probe.Device) (float64, error) {
	avg, err := m.readAveraged(dev)
	if err != nil {
		return 0, err
	}
	return m.ToVoltage(avg)
}

// Read takes one burst from the device and converts it to a full reading.
func (m *Meter) Read(dev probe.Device) (Reading, error) {
	avg, err := m.readAveraged(dev)
	if err != nil {
		return Reading{}, err
	}

	voltage, err := m.ToVoltage(avg)
	if err != nil {
		return Reading{}, err
	}

	value, err := m.ToPH(voltage)
	if err != nil {
		return Reading{}, err
	}

	return Reading{Voltage: voltage, PH: value}, nil
}

func (m *Meter) readAveraged(dev probe.Device) (float64, error) {
	m.mu.RLock()
	count, trim := m.sampleCount, m.trimOutliers
	m.mu.RUnlock()

	samples, err := dev.ReadSamples(count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read raw samples")
	}

	if trim {
		return TrimmedAverage(samples)
	}
	return Average(samples)
}
