package types

// Result is a tagged success/failure container. Every fallible snapshot
// operation returns one instead of a bare (value, error) pair so that
// partial failures and "metric unavailable" states compose uniformly.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a value in a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps an error in a failed Result. A nil error still produces a
// failure; use Ok for success.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errNilFailure
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the Result holds a value.
func (r Result[T]) IsSuccess() bool { return r.err == nil }

// IsFailure reports whether the Result holds an error.
func (r Result[T]) IsFailure() bool { return r.err != nil }

// Value returns the held value. On failure it returns the zero value;
// check IsSuccess or use Unwrap when the distinction matters.
func (r Result[T]) Value() T { return r.value }

// Err returns the held error, nil on success.
func (r Result[T]) Err() error { return r.err }

// Unwrap converts the Result back to Go's native pair form.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }
