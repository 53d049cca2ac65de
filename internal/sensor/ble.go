package sensor

import (
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"fsr-scope.klederson.com/internal/logging"
)

// BLESource connects to a peripheral by advertised name and decodes the
// text lines it sends on a notify characteristic (for instance a Nordic UART
// TX characteristic carrying "v1,v2,v3\n").
type BLESource struct {
	adapter *bluetooth.Adapter
	name    string
	service bluetooth.UUID
	char    bluetooth.UUID
	log     *logging.Logger

	mu      sync.Mutex
	device  *bluetooth.Device
	running bool
	lines   lineBuffer
}

// NewBLESource parses the service and characteristic UUIDs up front.
func NewBLESource(name, service, characteristic string, log *logging.Logger) (*BLESource, error) {
	svc, err := bluetooth.ParseUUID(service)
	if err != nil {
		return nil, fmt.Errorf("service uuid %q: %w", service, err)
	}
	ch, err := bluetooth.ParseUUID(characteristic)
	if err != nil {
		return nil, fmt.Errorf("characteristic uuid %q: %w", characteristic, err)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &BLESource{
		adapter: bluetooth.DefaultAdapter,
		name:    name,
		service: svc,
		char:    ch,
		log:     log.WithComponent("ble"),
	}, nil
}

func (s *BLESource) Name() string { return "ble:" + s.name }

// Start enables the adapter and connects in a goroutine. The connection
// result arrives as a ConnectionMsg.
func (s *BLESource) Start(out Sender) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		if err := s.connect(out); err != nil {
			s.log.Warn("ble connect failed", "name", s.name, "error", err)
			out.Send(ConnectionMsg{Source: s.Name(), Connected: false, Err: err})
		}
	}()
	return nil
}

func (s *BLESource) connect(out Sender) error {
	found := make(chan bluetooth.ScanResult, 1)
	err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if result.LocalName() != s.name {
			return
		}
		select {
		case found <- result:
		default:
		}
		_ = adapter.StopScan()
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	default:
		if !s.isRunning() {
			return nil
		}
		return fmt.Errorf("scan stopped before %q was found", s.name)
	}
	if !s.isRunning() {
		return nil
	}

	s.log.Info("peripheral found", "name", s.name, "address", result.Address.String(), "rssi", result.RSSI)

	device, err := s.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect %s: %w", result.Address.String(), err)
	}
	s.mu.Lock()
	s.device = &device
	s.mu.Unlock()

	services, err := device.DiscoverServices([]bluetooth.UUID{s.service})
	if err != nil {
		return fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("service %s not found", s.service.String())
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{s.char})
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return fmt.Errorf("characteristic %s not found", s.char.String())
	}

	err = chars[0].EnableNotifications(func(buf []byte) {
		s.handle(buf, out)
	})
	if err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}

	out.Send(ConnectionMsg{Source: s.Name(), Connected: true})
	return nil
}

func (s *BLESource) handle(buf []byte, out Sender) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	lines := s.lines.Feed(buf)
	s.mu.Unlock()

	now := time.Now()
	for _, line := range lines {
		sample, err := ParseLine(line, now)
		if err != nil {
			continue
		}
		out.Send(SampleMsg{Sample: sample})
	}
}

func (s *BLESource) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop halts scanning and drops the connection.
func (s *BLESource) Stop() {
	s.mu.Lock()
	s.running = false
	device := s.device
	s.device = nil
	s.mu.Unlock()

	_ = s.adapter.StopScan()
	if device != nil {
		_ = device.Disconnect()
	}
}
