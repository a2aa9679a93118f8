// Package jitter размывает паузы между повторами, чтобы клиенты не стучались в сервис одновременно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter - до +50% к паузе.
const DefaultJitter = 0.5

// Duration добавляет к d случайную надбавку, результат в [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	return withRand(d, factor, rand.Float64)
}

// DurationWithRand то же, что Duration, но на переданном генераторе (для детерминированных тестов).
func DurationWithRand(d time.Duration, factor float64, rng *rand.Rand) time.Duration {
	return withRand(d, factor, rng.Float64)
}

func withRand(d time.Duration, factor float64, f func() float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}
	return d + time.Duration(f()*factor*float64(d))
}

// ExponentialBackoff возвращает base*2^attempt, но не больше max, и добавляет джиттер.
// attempt считается с нуля.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}
	if max > 0 && backoff > max {
		backoff = max
	}
	return Duration(backoff, factor)
}
