// Package agent mediates all access to an open repository handle. In local
// mode callers invoke the handle directly from their own goroutine; in
// isolated mode a dedicated worker owns the handle and executes one
// operation at a time, giving a total order over all operations against one
// repository instance.
package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/otboss/gitgud/internal/git"
)

// Mode selects how a repository handle is shared when the agent is attached.
type Mode uint8

const (
	// Local calls into the handle from the caller's execution context with
	// no internal serialization. Only safe for a single owning context.
	Local Mode = iota
	// Isolated hands every operation to a dedicated worker goroutine that
	// owns the handle. Safe for concurrent callers.
	Isolated
)

func (m Mode) String() string {
	if m == Isolated {
		return "isolated"
	}
	return "local"
}

// State is the attach lifecycle of an agent.
type State uint32

const (
	Unattached State = iota
	Attaching
	Ready
	// Failed is terminal: the native repository could not be opened.
	Failed
)

func (s State) String() string {
	switch s {
	case Attaching:
		return "attaching"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unattached"
}

// ErrDetached reports an operation sent to an isolated agent whose worker
// has been shut down by the host.
var ErrDetached = errors.New("agent detached")

type request struct {
	op    string
	fn    func(*git.Repository) (any, error)
	reply chan response
}

type response struct {
	value any
	err   error
}

// Agent is the operation surface over one repository handle.
type Agent struct {
	mode  Mode
	state atomic.Uint32

	// repo is called directly in local mode and only ever touched by the
	// worker goroutine in isolated mode.
	repo *git.Repository

	reqs      chan request
	done      chan struct{}
	closeOnce sync.Once
}

// New opens the repository at path and returns a Ready agent. An open
// failure is terminal: the returned error is a *git.AttachError and in
// isolated mode no worker is started.
func New(path string, mode Mode) (*Agent, error) {
	a := &Agent{mode: mode}
	a.state.Store(uint32(Attaching))
	repo, err := git.Open(path)
	if err != nil {
		a.state.Store(uint32(Failed))
		return nil, err
	}
	a.repo = repo
	if mode == Isolated {
		a.reqs = make(chan request)
		a.done = make(chan struct{})
		go a.serve()
	}
	a.state.Store(uint32(Ready))
	slog.Debug("agent attached",
		slog.String("path", repo.Path()),
		slog.String("mode", mode.String()),
	)
	return a, nil
}

func (a *Agent) Mode() Mode { return a.mode }

func (a *Agent) State() State { return State(a.state.Load()) }

func (a *Agent) Path() string { return a.repo.Path() }

// Close stops the isolated worker. Teardown is owned by the host; closing a
// local agent is a no-op.
func (a *Agent) Close() {
	a.closeOnce.Do(func() {
		if a.done != nil {
			close(a.done)
		}
	})
}

func (a *Agent) serve() {
	for {
		select {
		case req := <-a.reqs:
			value, err := req.fn(a.repo)
			if err != nil {
				slog.Debug("agent op failed",
					slog.String("op", req.op),
					slog.Any("error", err),
				)
			}
			req.reply <- response{value: value, err: err}
		case <-a.done:
			return
		}
	}
}

// exec runs one operation in the mode-appropriate execution context. Every
// call is synchronous; an in-flight operation always runs to completion.
func exec[T any](a *Agent, op string, fn func(*git.Repository) (T, error)) (T, error) {
	if a.mode == Local {
		return fn(a.repo)
	}
	req := request{
		op:    op,
		fn:    func(r *git.Repository) (any, error) { return fn(r) },
		reply: make(chan response, 1),
	}
	var zero T
	select {
	case a.reqs <- req:
	case <-a.done:
		return zero, ErrDetached
	}
	resp := <-req.reply
	if resp.err != nil {
		return zero, resp.err
	}
	value, ok := resp.value.(T)
	if !ok {
		return zero, fmt.Errorf("agent op %s: reply %T does not match the requested shape", op, resp.value)
	}
	return value, nil
}
