// Command cureffdate prints the current chart cycle's effective date.
//
//	cureffdate [-x] [yyyy-mm-dd | mm-dd-yyyy | 'mmm dd yyyy']
//
// With -x it prints the next cycle's effective date.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/decosects/topo/internal/effdate"
)

func run() error {
	next := flag.Bool("x", false, "print the next cycle's effective date")
	flag.Parse()

	if flag.NArg() > 1 {
		return errors.New("syntax: cureffdate [-x] [yyyy-mm-dd | mm-dd-yyyy | 'mmm dd yyyy']")
	}

	cycles := 0
	if *next {
		cycles = 1
	}
	s, err := effdate.Format(effdate.Effective(time.Now(), cycles), flag.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
