package calib

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Default scale references for the Grove Base Hat 12-bit ADC.
const (
	DefaultVRef          = 3.3
	DefaultADCMax        = 4095.0
	DefaultCenterVoltage = 0.306
)

// Params holds a complete two-point calibration: the fitted line plus the
// ADC scale references the fit was made against. A Params value is produced
// by the solver or loaded from a calibration file; the reading pipeline only
// ever reads it.
type Params struct {
	Slope         float64 // pH per mV
	Offset        float64 // pH at 0 mV (centered)
	CenterVoltage float64 // V, probe neutral point
	VRef          float64 // V, ADC reference voltage
	ADCMax        float64 // full-scale ADC count, e.g. 4095 for 12 bits
}

// Validate checks the scale-reference invariants. Slope and offset may be
// any finite value; probe polarity and wiring can invert the slope sign, so
// no sign is assumed.
func (p Params) Validate() error {
	if p.ADCMax <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "ADC_MAX must be positive, got %g", p.ADCMax)
	}
	if p.VRef <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "V_REF must be positive, got %g", p.VRef)
	}
	for name, v := range map[string]float64{
		"PH_SLOPE":       p.Slope,
		"PH_OFFSET":      p.Offset,
		"CENTER_VOLTAGE": p.CenterVoltage,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidParameter, "%s must be finite, got %g", name, v)
		}
	}
	return nil
}

// Describe returns a human-readable summary of the calibration, one field
// per line. Used by the --show-calib flag of the reader CLI.
func (p Params) Describe() string {
	var b strings.Builder
	b.WriteString("Loaded calibration values:\n")
	fmt.Fprintf(&b, "  PH_SLOPE       = %.6f (pH per mV)\n", p.Slope)
	fmt.Fprintf(&b, "  PH_OFFSET      = %.6f\n", p.Offset)
	fmt.Fprintf(&b, "  CENTER_VOLTAGE = %.4f V\n", p.CenterVoltage)
	fmt.Fprintf(&b, "  V_REF          = %.4f V\n", p.VRef)
	fmt.Fprintf(&b, "  ADC_MAX        = %.1f\n", p.ADCMax)
	return b.String()
}
