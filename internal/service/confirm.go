package service

import "context"

// Confirmer asks the user a yes/no question. Confirm must not block the
// caller waiting for the answer; done is invoked once, possibly from
// another goroutine, with the user's decision.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string, done func(approved bool))
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string, done func(bool))

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string, done func(bool)) {
	f(ctx, prompt, done)
}

// AutoConfirm answers every prompt with answer.
func AutoConfirm(answer bool) Confirmer {
	return ConfirmFunc(func(_ context.Context, _ string, done func(bool)) {
		done(answer)
	})
}
