package log

// Option is a functional configuration option for a Logger.
type Option func(config) config

// apply folds opts over c and returns the result.
func apply(c config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}
