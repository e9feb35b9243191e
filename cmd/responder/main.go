// Command responder answers a JSON request with a JSON response. It is
// a template for programs driven by a request and a configuration
// given as JSON arguments.
package main

import (
	"os"

	"github.com/atuleu/meval/internal/prog"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args, &program{}))
}
