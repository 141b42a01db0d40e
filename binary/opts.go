package binary

import "github.com/tidefall/nbt-format/go-nbt/nbt"

type options struct {
	depth nbt.DepthLimit
	root  nbt.RootPolicy
}

// Option adjusts decoding and encoding behavior.  The defaults are a depth
// limit of nbt.DefaultDepthLimit and the NamedCompoundOnly root policy.
type Option func(*options)

// WithDepthLimit overrides the nesting limit; zero keeps the default.
func WithDepthLimit(d nbt.DepthLimit) Option {
	return func(o *options) { o.depth = d }
}

// WithRootPolicy selects what is accepted (and emitted) at the root.
func WithRootPolicy(p nbt.RootPolicy) Option {
	return func(o *options) { o.root = p }
}

func buildOptions(opts []Option) options {
	o := options{depth: nbt.DefaultDepthLimit, root: nbt.NamedCompoundOnly}
	for _, fn := range opts {
		fn(&o)
	}
	o.depth = o.depth.Or()
	return o
}
