package redmock

import "errors"

// Strategy selects when queued pipeline commands apply.
type Strategy int

const (
	// Eager applies each command the moment it is queued, so Exec is a
	// safe no-op. This matches the observed behavior of the reference
	// server client.
	Eager Strategy = iota

	// Deferred holds queued commands back until Exec.
	Deferred
)

// Pipeline is the command-buffering facade. Callers see the same
// Queue/Exec/Discard surface regardless of strategy, so deferred
// batching can be adopted without touching call sites.
type Pipeline struct {
	c        *Client
	strategy Strategy
	queue    []func(*Client) error
}

// Pipeline returns an eager pipeline over the client.
func (c *Client) Pipeline() *Pipeline {
	return c.PipelineWithStrategy(Eager)
}

// PipelineWithStrategy returns a pipeline with an explicit strategy.
func (c *Client) PipelineWithStrategy(s Strategy) *Pipeline {
	return &Pipeline{c: c, strategy: s}
}

// Queue submits one command. Under Eager it applies immediately and its
// error is returned here; under Deferred it is held until Exec and the
// return is always nil.
func (p *Pipeline) Queue(op func(*Client) error) error {
	if p.strategy == Eager {
		return op(p.c)
	}
	p.queue = append(p.queue, op)
	return nil
}

// Len returns the number of commands waiting for Exec.
func (p *Pipeline) Len() int {
	return len(p.queue)
}

// Exec applies pending commands in submission order. Under Eager
// nothing is pending, so Exec is a no-op. Each command succeeds or
// fails on its own; errors are collected, not retried.
func (p *Pipeline) Exec() error {
	var errs []error
	for _, op := range p.queue {
		if err := op(p.c); err != nil {
			errs = append(errs, err)
		}
	}
	p.queue = nil
	return errors.Join(errs...)
}

// Discard drops pending commands without applying them.
func (p *Pipeline) Discard() {
	p.queue = nil
}
