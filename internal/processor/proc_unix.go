//go:build !windows

package processor

import (
	"errors"
	"os"
	"syscall"
)

// terminate asks p to exit. A process that has already gone is not an error.
func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := p.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
