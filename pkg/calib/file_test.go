package calib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSource() map[string]float64 {
	return map[string]float64{
		KeySlope:         -0.0169,
		KeyOffset:        7.0,
		KeyCenterVoltage: 0.306,
		KeyVRef:          3.3,
		KeyADCMax:        4095.0,
	}
}

func TestFromMap(t *testing.T) {
	p, err := FromMap(validSource())
	require.NoError(t, err)

	assert.Equal(t, -0.0169, p.Slope)
	assert.Equal(t, 7.0, p.Offset)
	assert.Equal(t, 0.306, p.CenterVoltage)
	assert.Equal(t, 3.3, p.VRef)
	assert.Equal(t, 4095.0, p.ADCMax)
}

func TestFromMap_MissingField(t *testing.T) {
	source := validSource()
	delete(source, KeyADCMax)

	_, err := FromMap(source)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCalibrationField)
	assert.Contains(t, err.Error(), "ADC_MAX")
}

func TestFromMap_AllFieldsRequired(t *testing.T) {
	for _, key := range requiredKeys {
		source := validSource()
		delete(source, key)

		_, err := FromMap(source)
		require.Error(t, err, "expected error when %s is missing", key)
		assert.ErrorIs(t, err, ErrMissingCalibrationField)
		assert.Contains(t, err.Error(), key)
	}
}

func TestFromMap_InvalidScale(t *testing.T) {
	source := validSource()
	source[KeyADCMax] = 0

	_, err := FromMap(source)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	source = validSource()
	source[KeyVRef] = -1

	_, err = FromMap(source)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLoadFile_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "ph_calibration_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
PH_SLOPE: -0.0169
PH_OFFSET: 7.0
CENTER_VOLTAGE: 0.306
V_REF: 3.3
ADC_MAX: 4095.0
`
	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	p, err := LoadFile(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, -0.0169, p.Slope)
	assert.Equal(t, 7.0, p.Offset)
	assert.Equal(t, 0.306, p.CenterVoltage)
	assert.Equal(t, 3.3, p.VRef)
	assert.Equal(t, 4095.0, p.ADCMax)
}

func TestLoadFile_FileNotExists(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "ph_calibration_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = LoadFile(tmpfile.Name())
	assert.Error(t, err)
}

func TestLoadFile_IncompleteFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "ph_calibration_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("PH_SLOPE: -0.0169\nPH_OFFSET: 7.0\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = LoadFile(tmpfile.Name())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCalibrationField)
}

func TestSaveFile_RoundTrip(t *testing.T) {
	p := Params{
		Slope:         0.014938,
		Offset:        -13.097,
		CenterVoltage: 0.306,
		VRef:          3.3,
		ADCMax:        4095.0,
	}

	path := filepath.Join(t.TempDir(), "ph_calibration.yaml")
	require.NoError(t, p.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSaveFile_RejectsInvalid(t *testing.T) {
	p := Params{Slope: 0.01, Offset: 7, CenterVoltage: 0.306, VRef: 3.3, ADCMax: 0}

	err := p.SaveFile(filepath.Join(t.TempDir(), "bad.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDescribe(t *testing.T) {
	p, err := FromMap(validSource())
	require.NoError(t, err)

	s := p.Describe()
	assert.Contains(t, s, "PH_SLOPE")
	assert.Contains(t, s, "-0.016900")
	assert.Contains(t, s, "PH_OFFSET")
	assert.Contains(t, s, "CENTER_VOLTAGE")
	assert.Contains(t, s, "0.3060")
	assert.Contains(t, s, "V_REF")
	assert.Contains(t, s, "ADC_MAX")
	assert.Contains(t, s, "4095.0")
}
