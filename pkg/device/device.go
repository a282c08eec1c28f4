// Package device streams G-code to a GRBL style controller over a serial line.
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hatchplot/pkg/logging"
	"io"
	"runtime"
	"strings"

	"github.com/tarm/serial"
)

// DefaultBaud is the usual GRBL line speed.
const DefaultBaud = 115200

// ErrDevice is wrapped by errors reported by the controller.
var ErrDevice = errors.New("device error")

// Open opens the serial device dev. An empty dev tries the usual USB serial
// devices of the platform and returns the first error if none opens.
func Open(dev string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyUSB1", "/dev/ttyACM0")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("no device specified")
	}
	var firstErr error
	for _, dev := range devices {
		c := &serial.Config{Name: dev, Baud: baud}
		s, err := serial.OpenPort(c)
		if err == nil {
			logging.Logger().Info("opened device", "name", dev, "baud", baud)
			return s, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// Stream sends src to the controller one line at a time, waiting for each line
// to be acknowledged. Comments and blank lines are not sent. It returns the
// number of lines acknowledged.
//
// Stream returns as soon as ctx is done, even while waiting for a reply. A read
// still pending on rw at that point is abandoned; closing rw releases it.
func Stream(ctx context.Context, rw io.ReadWriter, src io.Reader) (int, error) {
	log := logging.Logger()
	replies := bufio.NewReader(rw)
	lines := bufio.NewScanner(src)
	sent := 0
	for lineNo := 1; lines.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		line := stripComments(lines.Text())
		if line == "" {
			continue
		}
		if _, err := io.WriteString(rw, line+"\n"); err != nil {
			return sent, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := waitOK(ctx, replies); err != nil {
			return sent, fmt.Errorf("line %d %q: %w", lineNo, line, err)
		}
		sent++
		log.Debug("sent", "line", lineNo, "gcode", line)
	}
	if err := lines.Err(); err != nil {
		return sent, fmt.Errorf("read gcode: %w", err)
	}
	log.Info("streamed gcode", "lines", sent)
	return sent, nil
}

type reply struct {
	line string
	err  error
}

// readReply reads one line from r, giving up when ctx is done.
func readReply(ctx context.Context, r *bufio.Reader) (string, error) {
	ch := make(chan reply, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- reply{line, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case rep := <-ch:
		return rep.line, rep.err
	}
}

// waitOK reads replies until the controller acknowledges or rejects a line.
// Status and welcome messages in between are skipped.
func waitOK(ctx context.Context, r *bufio.Reader) error {
	for {
		line, err := readReply(ctx, r)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "ok":
			return nil
		case strings.HasPrefix(line, "error"), strings.HasPrefix(line, "ALARM"):
			return fmt.Errorf("%w: %s", ErrDevice, line)
		case line != "":
			logging.Logger().Debug("device message", "reply", line)
		}
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
	}
}

// stripComments removes ; and parenthesized comments and surrounding space.
func stripComments(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		start := strings.IndexByte(line, '(')
		if start < 0 {
			break
		}
		end := strings.IndexByte(line[start:], ')')
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}
