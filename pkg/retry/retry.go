// Package retry повторяет идемпотентные операции чтения с экспоненциальной задержкой и джиттером.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/vansh-khaneja/WearWhat-backend/pkg/jitter"
)

// Policy описывает ограниченный повтор.
type Policy struct {
	Attempts int           // общее число попыток, включая первую
	Base     time.Duration // начальная задержка
	Max      time.Duration // максимальная задержка
}

// DefaultPolicy - 2 попытки для чтений из индекса и загрузок изображений.
var DefaultPolicy = Policy{Attempts: 2, Base: 100 * time.Millisecond, Max: 2 * time.Second}

// Permanent помечает ошибку, которую нет смысла повторять.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do выполняет fn до Attempts раз. Ошибки, помеченные Permanent, возвращаются сразу (без обёртки).
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt == p.Attempts-1 {
			break
		}

		sleep := jitter.ExponentialBackoff(p.Base, p.Max, attempt, jitter.DefaultJitter)
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}
