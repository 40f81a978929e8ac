package ext

import (
	"os"
	"os/exec"
)

var (
	DefaultAmbassador = &ambassador{}
)

// Ambassador the ambassador to the outside "world". Wraps methods that spawn processes or
// touch the filesystem and hence make the code that uses them very hard to test.
type Ambassador interface {
	Environ() []string
	LookPath(string) (string, error)
	TempFile(string, string) (*os.File, error)
	RunCmd(cmd *exec.Cmd) ([]byte, error)
}

type ambassador struct {
}

func (a *ambassador) Environ() []string {
	return os.Environ()
}

func (a *ambassador) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (a *ambassador) TempFile(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (a *ambassador) RunCmd(cmd *exec.Cmd) ([]byte, error) {
	return cmd.CombinedOutput()
}
