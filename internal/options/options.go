// Package options holds the generic functional options behind bpx.Option and
// inspect.Option.
//
// Each package declares its own config struct and exposes
// Option = options.Option[*Config]. Setters that cannot fail, such as
// bpx.WithChecksum, are built with NoError; setters that validate their
// argument, such as inspect.WithRowLimit, are built with New and make the
// constructor return that error:
//
//	c, err := bpx.Create(s, bpx.WithChecksum(false), bpx.WithLogger(log))
package options

// Option mutates the config of type T before a container or report is built.
type Option[T any] interface {
	apply(T) error
}

// Func is the Option returned by New and NoError.
type Func[T any] struct {
	fn func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps a setter whose error aborts the constructor applying it.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{fn: fn}
}

// NoError wraps a setter that always succeeds.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		fn: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply runs opts against cfg in argument order, so a later option overrides an
// earlier one. Nil options are skipped, letting callers pass conditional options
// without filtering them. The first error is returned unchanged.
func Apply[T any](cfg T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return err
		}
	}

	return nil
}
