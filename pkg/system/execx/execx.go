// Package execx runs OS diagnostic commands under the same Result error
// model the file-based sources use.
package execx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// Runner executes a command and returns its stdout as text. The interface
// exists so sources that shell out can be tested without a real binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) types.Result[string]
}

// OS returns the Runner backed by os/exec.
func OS() Runner { return osRunner{} }

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) types.Result[string] {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return types.Err[string](fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(ee.Stderr))))
		}
		return types.Err[string](fmt.Errorf("%s: %w", name, err))
	}
	return types.Ok(string(out))
}
