//go:build windows

package processor

import (
	"errors"
	"os"
)

// terminate kills p. Windows has no polite termination signal for console
// children. A process that has already gone is not an error.
func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
