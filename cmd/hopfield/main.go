// Package main provides the hopfield CLI.
//
// Usage:
//
//	hopfield recall -memory notes.txt -query "which line is this"
//	hopfield train -patterns 16 -dim 32 -hid 16 -epochs 50
//	hopfield version
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/born-ml/hopfield/backend/cpu"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("hopfield: ")

	if err := run(os.Args[1:], os.Stdout, log.Default()); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		usage(stdout)
		return errUsage
	}

	switch args[0] {
	case "recall":
		return runRecall(args[1:], stdout)
	case "train":
		return runTrain(args[1:], stdout, logger)
	case "version":
		fmt.Fprintf(stdout, "hopfield %s (%s)\n", version, cpu.DetectFeatures())
		return nil
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Modern Hopfield associative memory")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  recall     Recall the stored line closest to a query")
	fmt.Fprintln(w, "  train      Fit key/query projections on a synthetic recall task")
	fmt.Fprintln(w, "  version    Show version and CPU features")
}
