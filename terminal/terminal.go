// Package terminal implements the mcu.HostDevice collaborator the UART
// drains from and delivers to. The core never touches stdin/stdout
// directly; this package is the only seam between the emulated UART and
// the host process's actual terminal.
package terminal

import (
	"bufio"
	"io"
	"sync"
)

// byteFIFO is a small mutex-guarded, unbounded queue of bytes read from
// the host. It is the one concurrency boundary in this codebase: a background
// reader goroutine appends to it while the tick goroutine drains it.
type byteFIFO struct {
	mu  sync.Mutex
	buf []byte
}

func (f *byteFIFO) push(b byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = append(f.buf, b)
}

func (f *byteFIFO) pop() (byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.buf) == 0 {
		return 0, false
	}
	b := f.buf[0]
	f.buf = f.buf[1:]
	return b, true
}

// Terminal reads input from an io.Reader (normally os.Stdin) on a
// background goroutine and writes output to a buffered io.Writer
// (normally os.Stdout), satisfying mcu.HostDevice.
type Terminal struct {
	in  byteFIFO
	out *bufio.Writer
}

// NewStdin starts a Terminal reading from in and writing to out. The
// reader goroutine runs until in returns an error (typically EOF at
// process exit); it is never explicitly stopped since the process itself
// owns the file descriptors.
func NewStdin(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{out: bufio.NewWriter(out)}
	go t.readLoop(in)
	return t
}

func (t *Terminal) readLoop(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			t.in.push(buf[0])
		}
		if err != nil {
			return
		}
	}
}

// ReadByte pops the next byte the reader goroutine has buffered, without
// blocking. It returns (0, false) when nothing is available yet.
func (t *Terminal) ReadByte() (byte, bool) {
	return t.in.pop()
}

// WriteByte writes b to the underlying writer, flushing immediately to
// preserve interactive echo.
func (t *Terminal) WriteByte(b byte) {
	_ = t.out.WriteByte(b)
	_ = t.out.Flush()
}

// Null is a HostDevice that never has input available and discards every
// write. Used for headless runs and tests where no real terminal is
// attached.
type Null struct{}

func (Null) ReadByte() (byte, bool) { return 0, false }
func (Null) WriteByte(byte)         {}
