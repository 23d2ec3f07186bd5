// Command modalk-prove reads a modal formula from stdin and reports whether
// it is valid in the normal modal logic K.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/posener/complete"

	"github.com/modalk/prover/prover"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}

func run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("modalk-prove", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log stage timings to stderr")

	cmp := complete.New("modalk-prove", completion())
	if cmp.Complete() {
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	log := hclog.NewNullLogger()
	if *verbose {
		log = hclog.New(&hclog.LoggerOptions{
			Name:   "modalk-prove",
			Output: stderr,
			Level:  hclog.Debug,
		})
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reading formula: %v\n", err)
		return 1
	}
	expr := strings.TrimSpace(string(raw))

	valid, err := decide(expr, log)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if valid {
		fmt.Fprintln(stdout, "Psi is valid")
	} else {
		fmt.Fprintln(stdout, "Psi is NOT valid")
	}
	return 0
}

// decide runs prover.Decide's parse -> NNF -> simplify -> clausify -> prove
// pipeline, logging its overall duration when log is not a null logger, and
// wrapping a failure in a multierror.Error so the CLI boundary has one place
// to aggregate diagnostics if a later stage gains more than one.
func decide(expr string, log hclog.Logger) (bool, error) {
	start := time.Now()
	valid, err := prover.Decide(expr)
	log.Debug("stage complete", "stage", "decide", "elapsed", time.Since(start))

	if err != nil {
		var diagnostics *multierror.Error
		diagnostics = multierror.Append(diagnostics, err)
		return false, diagnostics.ErrorOrNil()
	}
	return valid, nil
}

// completion builds the shell-completion predictor for this command's one
// flag; modalk-prove takes no positional arguments, so the command itself
// predicts nothing beyond its flag set.
func completion() complete.Command {
	return complete.Command{
		Flags: complete.Flags{
			"-v": complete.PredictNothing,
		},
		Args: complete.PredictNothing,
	}
}
