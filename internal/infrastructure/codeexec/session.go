// Package codeexec runs Starlark snippets in a session whose globals survive
// between executions.
package codeexec

import (
	"context"
	"strings"
	"sync"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
)

const defaultMaxSteps = 10_000_000

func init() {
	// Snippets are written like scripts: top-level loops, reassignment and
	// while statements are expected.
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
	resolve.AllowSet = true
}

// Session is shared by every caller that holds it. Executions are serialized
// and every name a snippet defines is visible to later snippets, including
// ones submitted by other requests. Values from earlier executions are
// frozen, so they can be read and rebound but not mutated in place.
type Session struct {
	mu       sync.Mutex
	globals  starlark.StringDict
	maxSteps uint64
}

func NewSession() *Session {
	return &Session{
		globals:  starlark.StringDict{},
		maxSteps: defaultMaxSteps,
	}
}

// Exec runs code and returns everything it printed.
func (s *Session) Exec(ctx context.Context, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out strings.Builder
	thread := &starlark.Thread{
		Name: "session",
		Print: func(_ *starlark.Thread, msg string) {
			out.WriteString(msg)
			out.WriteByte('\n')
		},
	}
	thread.SetMaxExecutionSteps(s.maxSteps)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	globals, err := starlark.ExecFile(thread, "<session>", CleanCode(code), s.globals)
	for name, v := range globals {
		s.globals[name] = v
	}
	if err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

// Reset drops every global defined by earlier Exec calls.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globals = starlark.StringDict{}
}

// CleanCode strips a surrounding markdown code fence, with or without a
// language tag.
func CleanCode(code string) string {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "```") {
		return code
	}

	code = strings.TrimPrefix(code, "```")
	if nl := strings.IndexByte(code, '\n'); nl >= 0 && !strings.ContainsAny(code[:nl], " \t=(") {
		code = code[nl+1:]
	}
	code = strings.TrimSpace(code)
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}
