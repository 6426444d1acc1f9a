package spanlib

import (
	"os"
	"os/exec"
	"syscall"
)

var sysProcAttr = &syscall.SysProcAttr{}

// Runner executes one external command and returns its stdout. Everything
// that shells out takes a Runner so tests can substitute fakes.
type Runner func(name string, args ...string) ([]byte, error)

// ExecRunner is the real thing. Stderr passes through so tool diagnostics
// reach the user.
func ExecRunner(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = sysProcAttr
	return cmd.Output()
}
