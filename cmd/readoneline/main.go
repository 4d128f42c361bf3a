// Command readoneline prints one line from a file, or from stdin, while
// holding an exclusive lock on it.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/decosects/topo/internal/lockline"
)

func run() error {
	f := os.Stdin
	switch len(os.Args) {
	case 1:
	case 2:
		var err error
		f, err = os.Open(os.Args[1])
		if err != nil {
			return err
		}
		defer f.Close()
	default:
		return errors.New("syntax: readoneline [filename]")
	}

	w := bufio.NewWriter(os.Stdout)
	if err := lockline.ReadLine(f, w); err != nil {
		return err
	}
	return w.Flush()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
