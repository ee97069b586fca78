// Package exec provides an abstraction over command execution for testability.
// It allows production code to shell out through real exec.Command while tests
// inject mock runners that return pre-recorded outcomes.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
)

// Outcome is the structured result of a single command invocation.
// It is produced once per invocation, consumed immediately, and never retained.
type Outcome struct {
	Succeeded bool
	Stdout    string
	Stderr    string
}

// Combined returns stdout followed by stderr, for callers that
// pattern-match command output without caring which stream carried it.
func (o Outcome) Combined() string {
	return o.Stdout + o.Stderr
}

// CommandRunner abstracts command execution for testability.
// Production code uses RealRunner, while tests use MockRunner.
type CommandRunner interface {
	// Execute runs a command in dir and returns its structured outcome.
	// The error return is reserved for runner faults: the binary was not
	// found, the process could not start, or the context was cancelled.
	// A command that runs and exits non-zero is not a fault; it yields
	// Outcome.Succeeded == false with a nil error.
	Execute(ctx context.Context, dir string, name string, args ...string) (Outcome, error)
}

// RealRunner executes commands using os/exec.
type RealRunner struct{}

// NewRealRunner returns a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Execute runs the command with separate stdout/stderr capture.
func (r *RealRunner) Execute(ctx context.Context, dir string, name string, args ...string) (Outcome, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	outcome := Outcome{
		Succeeded: err == nil,
		Stdout:    stdoutBuf.String(),
		Stderr:    stderrBuf.String(),
	}
	if err == nil {
		return outcome, nil
	}

	// A cancelled context kills the process; report the cancellation rather
	// than the resulting exit status.
	if ctx.Err() != nil {
		return outcome, ctx.Err()
	}

	// Non-zero exit from a command that ran is a structured failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return outcome, nil
	}

	return outcome, err
}

// MockResponse defines the response for a mocked command.
// The zero value is a failed command with empty output.
type MockResponse struct {
	Stdout    string
	Stderr    string
	Succeeded bool
	Err       error // non-nil simulates a runner fault
}

// Matcher is a function that determines if a command matches.
type Matcher func(dir, name string, args []string) bool

// Rule pairs a matcher with its response.
type Rule struct {
	Match    Matcher
	Response MockResponse
}

// MockRunner returns pre-recorded outcomes for commands.
// Commands are matched in order of rule registration.
type MockRunner struct {
	mu       sync.RWMutex
	rules    []Rule
	calls    []Call
	fallback CommandRunner
}

// Call records a command invocation for verification.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// NewMockRunner creates a new MockRunner.
// If fallback is provided, unmatched commands will be delegated to it.
func NewMockRunner(fallback CommandRunner) *MockRunner {
	return &MockRunner{
		fallback: fallback,
	}
}

// AddRule adds a matching rule with its response.
func (m *MockRunner) AddRule(match Matcher, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, Rule{Match: match, Response: response})
}

// AddExactMatch adds a rule that matches a specific command exactly.
func (m *MockRunner) AddExactMatch(name string, args []string, response MockResponse) {
	m.AddRule(func(dir, n string, a []string) bool {
		if n != name {
			return false
		}
		if len(a) != len(args) {
			return false
		}
		for i, arg := range args {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// AddPrefixMatch adds a rule that matches commands starting with specific args.
func (m *MockRunner) AddPrefixMatch(name string, prefixArgs []string, response MockResponse) {
	m.AddRule(func(dir, n string, a []string) bool {
		if n != name {
			return false
		}
		if len(a) < len(prefixArgs) {
			return false
		}
		for i, arg := range prefixArgs {
			if a[i] != arg {
				return false
			}
		}
		return true
	}, response)
}

// Calls returns all recorded command invocations.
func (m *MockRunner) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// ClearCalls clears the recorded command invocations.
func (m *MockRunner) ClearCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockRunner) findMatch(dir, name string, args []string) *MockResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rule := range m.rules {
		if rule.Match(dir, name, args) {
			return &rule.Response
		}
	}
	return nil
}

func (m *MockRunner) recordCall(dir, name string, args []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Dir: dir, Name: name, Args: args})
}

// Execute returns the first matching rule's response.
func (m *MockRunner) Execute(ctx context.Context, dir string, name string, args ...string) (Outcome, error) {
	m.recordCall(dir, name, args)

	if resp := m.findMatch(dir, name, args); resp != nil {
		outcome := Outcome{
			Succeeded: resp.Succeeded,
			Stdout:    resp.Stdout,
			Stderr:    resp.Stderr,
		}
		return outcome, resp.Err
	}

	if m.fallback != nil {
		return m.fallback.Execute(ctx, dir, name, args...)
	}

	// Default: empty success
	return Outcome{Succeeded: true}, nil
}

// Ensure implementations satisfy the interface.
var _ CommandRunner = (*RealRunner)(nil)
var _ CommandRunner = (*MockRunner)(nil)
