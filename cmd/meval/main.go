// Command meval evaluates a mathematical statement in one variable over
// an array of numbers, and prints the array of results.
package main

import (
	"os"

	"github.com/atuleu/meval/internal/prog"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args, &program{}))
}
