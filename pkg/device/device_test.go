package device_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"hatchplot/pkg/device"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// simulator acknowledges every line it receives, rejecting lines that contain
// reject.
type simulator struct {
	received []string
	reject   string
	replies  bytes.Buffer
}

func (s *simulator) Write(p []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(p))
	for sc.Scan() {
		line := sc.Text()
		s.received = append(s.received, line)
		if s.reject != "" && strings.Contains(line, s.reject) {
			s.replies.WriteString("error:20\n")
			continue
		}
		if len(s.received) == 1 {
			s.replies.WriteString("[MSG:Caution: Unlocked]\n")
		}
		s.replies.WriteString("ok\n")
	}
	return len(p), nil
}

func (s *simulator) Read(p []byte) (int, error) {
	return s.replies.Read(p)
}

const program = `;-- Laser gcode Head
M5
G90 (absolute)

G0 X1.000 Y0.000
S15.000
G1 X2.000 Y0.000 ; mark
`

func TestStream(t *testing.T) {
	sim := &simulator{}
	n, err := device.Stream(context.Background(), sim, strings.NewReader(program))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"M5", "G90", "G0 X1.000 Y0.000", "S15.000", "G1 X2.000 Y0.000"}
	if diff := cmp.Diff(want, sim.received); diff != "" {
		t.Errorf("incorrect lines sent: %s", diff)
	}
	if n != len(want) {
		t.Errorf("got %d lines acknowledged, want %d", n, len(want))
	}
}

func TestStreamDeviceError(t *testing.T) {
	sim := &simulator{reject: "S15"}
	n, err := device.Stream(context.Background(), sim, strings.NewReader(program))
	if !errors.Is(err, device.ErrDevice) {
		t.Fatalf("got %v, want ErrDevice", err)
	}
	if n != 3 {
		t.Errorf("got %d lines acknowledged, want 3", n)
	}
}

func TestStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim := &simulator{}
	n, err := device.Stream(ctx, sim, strings.NewReader(program))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if n != 0 || len(sim.received) != 0 {
		t.Errorf("sent %d lines after cancel", len(sim.received))
	}
}

type silent struct{ io.Writer }

func (silent) Read([]byte) (int, error) { return 0, io.EOF }

func TestStreamNoReply(t *testing.T) {
	_, err := device.Stream(context.Background(), silent{io.Discard}, strings.NewReader("M5\n"))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

// stalled never replies until released.
type stalled struct {
	io.Writer
	release chan struct{}
}

func (s stalled) Read([]byte) (int, error) {
	<-s.release
	return 0, io.EOF
}

func TestStreamCancelWhileWaiting(t *testing.T) {
	dev := stalled{Writer: io.Discard, release: make(chan struct{})}
	defer close(dev.release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := device.Stream(ctx, dev, strings.NewReader("M5\nM3\n"))
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v, want context.DeadlineExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stream did not return after the context was done")
	}
}
