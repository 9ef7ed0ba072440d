// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// HookResult records the outcome of a single post-create hook command.
type HookResult struct {
	// Command is the hook line after placeholder expansion.
	Command string
	// ExitCode is the command's exit status (0 on success).
	ExitCode int
	// Output is the combined stdout and stderr of the command.
	Output string
	// Err is non-nil when the hook failed to parse, run, or exited
	// non-zero.
	Err error
}

// Failed reports whether the hook did not complete successfully.
func (r HookResult) Failed() bool { return r.Err != nil }

// RunPostCreate executes the template's post-create hook commands inside
// root using the embedded POSIX shell interpreter. Each command runs under
// its own timeout; a failing hook does not stop the remaining ones. The
// returned slice has one entry per hook, in template order.
func RunPostCreate(ctx context.Context, root string, tpl *Template, projectName string, timeout time.Duration) []HookResult {
	results := make([]HookResult, 0, len(tpl.PostCreate))
	for _, line := range tpl.PostCreate {
		command := ExpandPlaceholders(line, projectName)
		results = append(results, runHook(ctx, root, command, projectName, timeout))
	}

	return results
}

// runHook parses and executes one hook command with root as its working
// directory, capturing combined output. The process environment is passed
// through with PYFORGE_PROJECT_NAME added for scripts the hook invokes.
func runHook(ctx context.Context, root, command, projectName string, timeout time.Duration) HookResult {
	res := HookResult{Command: command}

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "post_create")
	if err != nil {
		res.ExitCode = 1
		res.Err = fmt.Errorf("failed to parse hook: %w", err)

		return res
	}

	var output bytes.Buffer

	env := append(os.Environ(), "PYFORGE_PROJECT_NAME="+projectName)

	runner, err := interp.New(
		interp.Dir(root),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &output, &output),
	)
	if err != nil {
		res.ExitCode = 1
		res.Err = fmt.Errorf("failed to create interpreter: %w", err)

		return res
	}

	hookCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		hookCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = runner.Run(hookCtx, prog)
	res.Output = output.String()

	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			res.ExitCode = int(exitStatus)
			res.Err = fmt.Errorf("hook exited with status %d", res.ExitCode)
		} else {
			res.ExitCode = 1
			res.Err = fmt.Errorf("hook execution failed: %w", err)
		}
	}

	return res
}
