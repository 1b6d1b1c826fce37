package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/academia/internal/domain"
)

// ErrInvalidDNI is returned by CheckDNICommand.Run when any number fails.
var ErrInvalidDNI = errors.New("one or more identity numbers are invalid")

// CheckDNICommand validates identity numbers from the command line.
type CheckDNICommand struct {
	Numbers []string
	Quiet   bool
	Out     io.Writer
}

func NewCheckDNICommand() *CheckDNICommand {
	return &CheckDNICommand{Out: os.Stdout}
}

func (cmd *CheckDNICommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-dni", flag.ContinueOnError)

	fs.BoolVar(&cmd.Quiet, "quiet", false, "Only report invalid numbers")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-dni [options] <number>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Validate 10-digit identity numbers (province code and check digit).\n")
		fmt.Fprintf(os.Stderr, "Exits with status 1 if any number is invalid.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s check-dni 1710034065 0926687856\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Numbers = fs.Args()
	if len(cmd.Numbers) == 0 {
		return fmt.Errorf("at least one identity number is required")
	}
	return nil
}

func (cmd *CheckDNICommand) Run() error {
	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}

	invalid := 0
	for _, n := range cmd.Numbers {
		n = strings.TrimSpace(n)
		if domain.ValidDNI(n) {
			if !cmd.Quiet {
				fmt.Fprintf(out, "%s\tvalid\n", n)
			}
			continue
		}
		invalid++
		fmt.Fprintf(out, "%s\tinvalid\n", n)
	}

	if invalid > 0 {
		return fmt.Errorf("%w (%d of %d)", ErrInvalidDNI, invalid, len(cmd.Numbers))
	}
	return nil
}
