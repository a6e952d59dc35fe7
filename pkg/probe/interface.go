package probe

// Device defines the interface for pH probe ADC sources (real or mocked).
// ReadSamples blocks until count raw ADC counts have been collected.
type Device interface {
	Connect() error
	Close() error
	ReadSamples(count int) ([]int, error)
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
