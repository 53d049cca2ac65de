package sensor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/logging"
)

// StreamSource reads one reading per line from a file, pipe or serial tty.
// "-" reads standard input. The source disconnects at end of input.
type StreamSource struct {
	path string
	log  *logging.Logger
	now  func() time.Time

	mu      sync.Mutex
	closer  io.Closer
	stopped bool
}

// NewStreamSource creates a line source reading path.
func NewStreamSource(path string, log *logging.Logger) *StreamSource {
	if log == nil {
		log = logging.NopLogger()
	}
	return &StreamSource{path: path, log: log.WithComponent("stream"), now: time.Now}
}

func (s *StreamSource) Name() string {
	if s.path == "-" {
		return "stdin"
	}
	return s.path
}

// Start opens the input and reads it in a goroutine.
func (s *StreamSource) Start(out Sender) error {
	var r io.Reader = os.Stdin
	if s.path != "-" {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("open %s: %w", s.path, err)
		}
		s.mu.Lock()
		s.closer = f
		s.mu.Unlock()
		r = f
	}

	go s.read(r, out)
	return nil
}

func (s *StreamSource) read(r io.Reader, out Sender) {
	out.Send(ConnectionMsg{Source: s.Name(), Connected: true})
	err := s.consume(r, out)

	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}
	if err != nil {
		s.log.Warn("stream read failed", "path", s.path, "error", err)
	} else {
		s.log.Info("stream ended", "path", s.path)
	}
	out.Send(ConnectionMsg{Source: s.Name(), Connected: false, Err: err})
}

// consume decodes lines from r until EOF, sending each reading.
func (s *StreamSource) consume(r io.Reader, out Sender) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), config.StreamMaxLine)

	for sc.Scan() {
		if s.isStopped() {
			return nil
		}
		sample, err := ParseLine(sc.Text(), s.now())
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			s.log.Debug("dropped malformed line", "line", sc.Text(), "error", err)
			continue
		}
		out.Send(SampleMsg{Sample: sample})
	}
	return sc.Err()
}

func (s *StreamSource) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop closes the input. Reads from stdin cannot be interrupted; the reader
// goroutine exits on its next line.
func (s *StreamSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.closer != nil {
		_ = s.closer.Close()
		s.closer = nil
	}
}
