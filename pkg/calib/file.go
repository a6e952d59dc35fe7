package calib

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrMissingCalibrationField indicates an incomplete calibration source.
// The wrapping error names the missing key.
var ErrMissingCalibrationField = errors.New("missing calibration field")

// Calibration file keys. All five are required; there are no defaults in
// the file format itself.
const (
	KeySlope         = "PH_SLOPE"
	KeyOffset        = "PH_OFFSET"
	KeyCenterVoltage = "CENTER_VOLTAGE"
	KeyVRef          = "V_REF"
	KeyADCMax        = "ADC_MAX"
)

var requiredKeys = []string{KeySlope, KeyOffset, KeyCenterVoltage, KeyVRef, KeyADCMax}

// FromMap builds Params from a flat key-value source, validating that every
// required key is present and that the scale references are positive.
func FromMap(source map[string]float64) (Params, error) {
	for _, key := range requiredKeys {
		if _, ok := source[key]; !ok {
			return Params{}, errors.Wrapf(ErrMissingCalibrationField, "%s", key)
		}
	}

	p := Params{
		Slope:         source[KeySlope],
		Offset:        source[KeyOffset],
		CenterVoltage: source[KeyCenterVoltage],
		VRef:          source[KeyVRef],
		ADCMax:        source[KeyADCMax],
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Map returns the flat key-value form of the calibration, the inverse of
// FromMap.
func (p Params) Map() map[string]float64 {
	return map[string]float64{
		KeySlope:         p.Slope,
		KeyOffset:        p.Offset,
		KeyCenterVoltage: p.CenterVoltage,
		KeyVRef:          p.VRef,
		KeyADCMax:        p.ADCMax,
	}
}

// LoadFile reads a flat YAML calibration file. A missing file is reported
// with the os.IsNotExist error preserved in the chain so callers can treat
// absence as non-fatal and stay uncalibrated.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, errors.Wrap(err, "failed to read calibration file")
	}

	source := make(map[string]float64)
	if err := yaml.Unmarshal(data, &source); err != nil {
		return Params{}, errors.Wrapf(err, "failed to parse calibration file %s", path)
	}

	p, err := FromMap(source)
	if err != nil {
		return Params{}, errors.Wrapf(err, "calibration file %s", path)
	}
	return p, nil
}

// SaveFile writes the calibration as a flat YAML file.
func (p Params) SaveFile(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(p.Map())
	if err != nil {
		return errors.Wrap(err, "failed to marshal calibration")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write calibration file %s", path)
	}
	return nil
}
