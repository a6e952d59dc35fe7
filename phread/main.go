// Command phread takes one averaged pH reading from a probe. The probe is
// either a serial-attached ADC bridge or a mocked device for development
// away from the hardware.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wnccnasa/FishCam/pkg/ph"
	"github.com/wnccnasa/FishCam/pkg/probe"
)

var (
	calibPath   string
	port        string
	useMock     bool
	mockVoltage float64
	samples     int
	trim        bool
	showCalib   bool
	logLevel    string
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "phread",
		Short:        "Read a calibrated pH value from the probe",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "failed to parse log level")
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: run,
	}

	flags := cmd.Flags()
	flags.StringVar(&calibPath, "calib", "ph_calibration.yaml", "path to the calibration file")
	flags.StringVarP(&port, "port", "p", "/dev/ttyACM0", "serial port of the ADC bridge")
	flags.BoolVar(&useMock, "mock", false, "use a mocked probe instead of the serial port")
	flags.Float64Var(&mockVoltage, "mock-voltage", 1.65, "simulated probe voltage for --mock (V)")
	flags.IntVar(&samples, "samples", ph.DefaultSampleCount, "raw samples to average per reading")
	flags.BoolVar(&trim, "trim", true, "drop the min and max sample before averaging")
	flags.BoolVar(&showCalib, "show-calib", false, "print the currently loaded calibration and exit")
	flags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	meter := ph.New(ph.Options{
		SampleCount:  samples,
		TrimOutliers: trim,
	})

	// A missing calibration file is not fatal: the meter stays
	// uncalibrated and only voltage readings are available.
	if err := meter.Load(calibPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logrus.WithField("path", calibPath).Warn("Calibration file not found; probe is uncalibrated")
		} else {
			return err
		}
	}

	if showCalib {
		params, calibrated := meter.Params()
		if !calibrated {
			cmd.Println("No calibration loaded.")
			return nil
		}
		cmd.Print(params.Describe())
		return nil
	}

	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if !meter.Calibrated() {
		voltage, err := meter.ReadVoltage(dev)
		if err != nil {
			return err
		}
		cmd.Printf("voltage: %.4f V (uncalibrated, run phcal first)\n", voltage)
		return nil
	}

	reading, err := meter.Read(dev)
	if err != nil {
		return err
	}

	cmd.Printf("pH: %.2f  (voltage: %.4f V)\n", reading.PH, reading.Voltage)
	return nil
}

func openDevice() (probe.Device, error) {
	if useMock {
		dev := probe.NewMock(probe.MockConfig{
			Voltage:    mockVoltage,
			NoiseLevel: 0.002,
		})
		if err := dev.Connect(); err != nil {
			return nil, err
		}
		return dev, nil
	}

	dev := probe.NewSerial(port, 0, 0)
	if err := dev.Connect(); err != nil {
		ports, listErr := probe.Ports()
		if listErr == nil && len(ports) > 0 {
			return nil, errors.Wrapf(err, "available ports: %v", ports)
		}
		return nil, err
	}
	return dev, nil
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
