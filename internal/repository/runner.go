package repository

import "context"

// txRunner serializes all engine access onto one goroutine, so the single
// process-wide connection is never driven from two goroutines at once.
// Submitted work cannot be cancelled; ctx is consulted before submission only.
type txRunner struct {
	ops  chan func()
	done chan struct{}
}

func newTxRunner() *txRunner {
	r := &txRunner{
		ops:  make(chan func()),
		done: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *txRunner) loop() {
	defer close(r.done)
	for op := range r.ops {
		op()
	}
}

// do runs fn on the runner goroutine and waits for it to finish.
func (r *txRunner) do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	errc := make(chan error, 1)
	r.ops <- func() { errc <- fn() }
	return <-errc
}

func (r *txRunner) close() {
	close(r.ops)
	<-r.done
}
