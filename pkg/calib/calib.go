package calib

import (
	"github.com/pkg/errors"
)

// Sentinel errors for calibration failures. Callers match with errors.Is.
var (
	// ErrInvalidParameter indicates a non-positive scale reference (ADC_MAX or V_REF).
	ErrInvalidParameter = errors.New("invalid calibration parameter")
	// ErrDegenerateCalibration indicates the two calibration points collapse
	// to the same measured millivolt value, so no line can be fit.
	ErrDegenerateCalibration = errors.New("degenerate calibration: measured values must differ")
)

// Point is a single calibration point: a measured value in millivolts
// (relative to the probe's neutral center voltage) and the reference pH
// of the buffer solution it was measured in.
type Point struct {
	MV float64
	PH float64
}

// VoltageFromRaw converts a raw ADC count to a voltage using the linear
// scale raw/adcMax*vref. Out-of-range counts are not clamped; bad hardware
// input surfaces as an out-of-range voltage.
func VoltageFromRaw(raw float64, vref, adcMax float64) (float64, error) {
	if adcMax <= 0 {
		return 0, errors.Wrapf(ErrInvalidParameter, "ADC_MAX must be positive, got %g", adcMax)
	}
	if vref <= 0 {
		return 0, errors.Wrapf(ErrInvalidParameter, "V_REF must be positive, got %g", vref)
	}
	return raw / adcMax * vref, nil
}

// CenteredMV converts a voltage to millivolts relative to the center voltage.
func CenteredMV(voltage, centerVoltage float64) float64 {
	return (voltage - centerVoltage) * 1000.0
}

// Solve fits the linear model pH = slope*mv + offset through two calibration
// points. The fit is symmetric: swapping a and b yields the same line.
func Solve(a, b Point) (slope, offset float64, err error) {
	if a.MV == b.MV {
		return 0, 0, errors.Wrapf(ErrDegenerateCalibration, "both points measure %g mV", a.MV)
	}

	slope = (a.PH - b.PH) / (a.MV - b.MV)
	offset = a.PH - slope*a.MV
	return slope, offset, nil
}

// SolveRaw fits the linear model from two raw ADC counts and their reference
// pH values. The counts are reduced to centered millivolt points first, so
// the result is identical to calling Solve with pre-converted values.
func SolveRaw(rawA, rawB float64, phA, phB float64, centerVoltage, vref, adcMax float64) (slope, offset float64, err error) {
	a, err := PointFromRaw(rawA, phA, centerVoltage, vref, adcMax)
	if err != nil {
		return 0, 0, err
	}
	b, err := PointFromRaw(rawB, phB, centerVoltage, vref, adcMax)
	if err != nil {
		return 0, 0, err
	}
	return Solve(a, b)
}

// PointFromRaw builds a calibration point from a raw ADC count.
func PointFromRaw(raw, ph float64, centerVoltage, vref, adcMax float64) (Point, error) {
	v, err := VoltageFromRaw(raw, vref, adcMax)
	if err != nil {
		return Point{}, err
	}
	return Point{MV: CenteredMV(v, centerVoltage), PH: ph}, nil
}
