// Command phcal derives two-point pH calibration parameters from either two
// centered millivolt values or two raw ADC counts, and optionally saves the
// result as a calibration file for the reader.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wnccnasa/FishCam/pkg/calib"
)

var (
	mvValues      []float64
	rawValues     []float64
	phValues      []float64
	centerVoltage float64
	vref          float64
	adcMax        float64
	savePath      string
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phcal",
		Short: "Compute slope and offset for the linear pH model from two calibration points",
		Long: `Compute slope and offset for the linear model pH = slope*mv + offset
from two calibration measurements, each paired with the known pH of its
buffer solution.

Measurements are given either as centered millivolt values (--mv) or as
raw ADC counts (--raw) converted using --center-voltage, --vref and
--adc-max.`,
		Example: `  phcal --mv -10.5,-100.0 --ph 7.0,4.0
  phcal --raw 2048,1800 --ph 7.0,4.0 --center-voltage 0.306
  phcal --raw 2048,1800 --ph 7.0,4.0 --save ph_calibration.yaml`,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.Float64SliceVar(&mvValues, "mv", nil, "two measured millivolt values, centered around neutral")
	flags.Float64SliceVar(&rawValues, "raw", nil, "two raw ADC counts")
	flags.Float64SliceVar(&phValues, "ph", nil, "the two reference pH values, order-matched")
	flags.Float64Var(&centerVoltage, "center-voltage", calib.DefaultCenterVoltage, "probe neutral point voltage (V), used with --raw")
	flags.Float64Var(&vref, "vref", calib.DefaultVRef, "ADC reference voltage (V), used with --raw")
	flags.Float64Var(&adcMax, "adc-max", calib.DefaultADCMax, "full-scale ADC count, used with --raw")
	flags.StringVar(&savePath, "save", "", "save the resulting calibration to this file")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	if len(phValues) != 2 {
		return fmt.Errorf("--ph requires exactly two reference values, got %d", len(phValues))
	}

	var a, b calib.Point
	switch {
	case len(mvValues) == 2 && len(rawValues) == 0:
		a = calib.Point{MV: mvValues[0], PH: phValues[0]}
		b = calib.Point{MV: mvValues[1], PH: phValues[1]}
	case len(rawValues) == 2 && len(mvValues) == 0:
		var err error
		a, err = calib.PointFromRaw(rawValues[0], phValues[0], centerVoltage, vref, adcMax)
		if err != nil {
			return err
		}
		b, err = calib.PointFromRaw(rawValues[1], phValues[1], centerVoltage, vref, adcMax)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("provide exactly two measurements via --mv or --raw (not both)")
	}

	slope, offset, err := calib.Solve(a, b)
	if err != nil {
		return err
	}

	cmd.Println("Calibration result:")
	cmd.Printf("  point A: mv=%.3f mV -> pH=%.2f\n", a.MV, a.PH)
	cmd.Printf("  point B: mv=%.3f mV -> pH=%.2f\n", b.MV, b.PH)
	cmd.Println()
	cmd.Printf("  slope  = %.6f  (pH per mV)\n", slope)
	cmd.Printf("  offset = %.6f\n", offset)
	cmd.Println()
	cmd.Println("Linear equation to use in code: pH = slope * measured_mv + offset")

	if savePath != "" {
		p := calib.Params{
			Slope:         slope,
			Offset:        offset,
			CenterVoltage: centerVoltage,
			VRef:          vref,
			ADCMax:        adcMax,
		}
		if err := p.SaveFile(savePath); err != nil {
			return err
		}
		cmd.Printf("Saved calibration to %s\n", savePath)
	}

	return nil
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
