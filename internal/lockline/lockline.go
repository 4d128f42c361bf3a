// Package lockline reads single lines from files shared between processes.
package lockline

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReadLine copies one line, including its trailing newline if any, from f to
// w while holding an exclusive flock on f. It reads one byte at a time so
// that f's offset is left just after the line, which lets several processes
// take turns reading lines from a shared descriptor.
func ReadLine(f *os.File, w io.Writer) (err error) {
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return &os.PathError{Op: "flock", Path: f.Name(), Err: err}
	}
	defer func() {
		if unlockErr := unix.Flock(fd, unix.LOCK_UN); err == nil && unlockErr != nil {
			err = &os.PathError{Op: "flock", Path: f.Name(), Err: unlockErr}
		}
	}()

	var line []byte
	b := make([]byte, 1)
	for {
		n, err := f.Read(b)
		switch {
		case n == 1:
			line = append(line, b[0])
			if b[0] == '\n' {
				_, err := w.Write(line)
				return err
			}
		case errors.Is(err, io.EOF):
			_, err := w.Write(line)
			return err
		case err != nil:
			return err
		}
	}
}
