package core

// Result carries the outcome of a single remote operation so call sites can
// branch on success or failure explicitly.
type Result[T any] struct {
	Value T
	Err   error
}

func Succeeded[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// ResultOf builds a Result from a (value, error) pair.
func ResultOf[T any](value T, err error) Result[T] {
	if err != nil {
		return Result[T]{Value: value, Err: err}
	}
	return Result[T]{Value: value}
}

func (r Result[T]) Failed() bool {
	return r.Err != nil
}
