package autofix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/issue"
)

// ShellFixer adapts an external fixer program to the Fixer interface
// by speaking a small JSON request/response protocol over stdin/stdout
// (spec.md §4.8: "Fixer interface (external collaborator)"). This
// engine never generates fixes itself; ShellFixer is the thinnest
// possible bridge to whatever does (an LLM agent, a rule engine, a
// human-in-the-loop script).
type ShellFixer struct {
	Command []string
	Timeout time.Duration
}

type shellFixerRequest struct {
	Op    string      `json:"op"`
	Issue *issue.Issue `json:"issue,omitempty"`
	Plan  *FixPlan     `json:"plan,omitempty"`
}

// Analyze sends {"op":"analyze","issue":...} to the configured
// command and decodes a FixPlan from its stdout.
func (f ShellFixer) Analyze(it issue.Issue) (FixPlan, error) {
	var plan FixPlan
	if err := f.call(shellFixerRequest{Op: "analyze", Issue: &it}, &plan); err != nil {
		return FixPlan{}, err
	}
	return plan, nil
}

// Apply sends {"op":"apply","plan":...} to the configured command and
// decodes a FixResult from its stdout. The command is responsible for
// writing the actual file changes before it exits.
func (f ShellFixer) Apply(plan FixPlan) (FixResult, error) {
	var result FixResult
	if err := f.call(shellFixerRequest{Op: "apply", Plan: &plan}, &result); err != nil {
		return FixResult{}, err
	}
	return result, nil
}

func (f ShellFixer) call(req shellFixerRequest, out any) error {
	if len(f.Command) == 0 {
		return fmt.Errorf("autofix: no fixer command configured")
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("autofix: encoding fixer request: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.Command[0], f.Command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("autofix: fixer command failed: %w (stderr: %s)", err, stderr.String())
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("autofix: decoding fixer response: %w", err)
	}
	return nil
}
