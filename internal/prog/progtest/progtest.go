// Package progtest runs a prog.Program in tests, with files standing in
// for the standard streams.
package progtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atuleu/meval/internal/prog"
)

// Result holds what a program wrote and its exit status.
type Result struct {
	Stdout, Stderr string
	Exit           int
}

// Run runs p with the given stdin content and arguments. args does not
// include the program name.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) Result {
	t.Helper()
	dir := t.TempDir()

	inPath := filepath.Join(dir, "stdin")
	if err := os.WriteFile(inPath, []byte(stdin), 0o600); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	in, err := os.Open(inPath)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	defer in.Close()
	out := create(t, filepath.Join(dir, "stdout"))
	defer out.Close()
	errf := create(t, filepath.Join(dir, "stderr"))
	defer errf.Close()

	exit := prog.Run([3]*os.File{in, out, errf}, append([]string{p.Name()}, args...), p)
	return Result{
		Stdout: read(t, out.Name()),
		Stderr: read(t, errf.Name()),
		Exit:   exit,
	}
}

func create(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
