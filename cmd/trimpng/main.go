// Command trimpng trims white borders from the right and bottom of a chart
// image and writes the result as a PNG. If nothing would be trimmed, no
// output is written.
//
//	trimpng in.png out.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/decosects/topo/internal/trim"
)

func run() error {
	margin := flag.Int("margin", trim.DefaultMargin, "pixels kept beyond the last non-white pixel")
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("syntax: trimpng [-margin n] in.png out.png")
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()
	img, err := trim.Decode(in)
	if err != nil {
		return fmt.Errorf("%s: %w", flag.Arg(0), err)
	}

	trimmed, ok := trim.Trim(img, *margin)
	if !ok {
		return nil
	}

	out, err := os.Create(flag.Arg(1))
	if err != nil {
		return fmt.Errorf("error creating %s: %w", flag.Arg(1), err)
	}
	if err := trim.Encode(out, trimmed); err != nil {
		_ = out.Close()
		return fmt.Errorf("%s: %w", flag.Arg(1), err)
	}
	return out.Close()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
