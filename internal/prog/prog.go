// Package prog provides the entry point shared by the commands of this
// module. A command implements Program; Run parses its flags, runs it
// and turns the returned error into an exit status.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Version is the version reported by -version. It can be set at link
// time with -ldflags "-X github.com/atuleu/meval/internal/prog.Version=...".
var Version = "0.1.0-dev"

// Program represents a command.
type Program interface {
	// Name is the name of the command, used in messages.
	Name() string
	// Usage is the part of the usage line following the name.
	Usage() string
	// RegisterFlags adds the flags of the command to fs.
	RegisterFlags(fs *flag.FlagSet)
	// Run runs the command with the arguments left after flags.
	Run(fds [3]*os.File, args []string) error
}

func usage(out io.Writer, p Program, fs *flag.FlagSet) {
	fmt.Fprintf(out, "Usage: %s [flags] %s\n", p.Name(), p.Usage())
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs p. It returns the exit status
// of the program: 0 on success, 2 on bad usage, 1 on any other error
// unless p returned an Exit error.
func Run(fds [3]*os.File, args []string, p Program) int {
	fs := flag.NewFlagSet(p.Name(), flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var help, version bool
	fs.BoolVar(&help, "help", false, "show usage help and quit")
	fs.BoolVar(&version, "version", false, "show version and quit")
	p.RegisterFlags(fs)

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// -h is not defined, only -help is.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], p, fs)
		return 2
	}

	if help {
		usage(fds[1], p, fs)
		return 0
	}
	if version {
		fmt.Fprintln(fds[1], p.Name(), Version)
		return 0
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var bad badUsageError
	var exit exitError
	switch {
	case errors.As(err, &bad):
		usage(fds[2], p, fs)
		return 2
	case errors.As(err, &exit):
		return exit.exit
	}
	return 1
}

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
