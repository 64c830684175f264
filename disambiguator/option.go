package disambiguator

import "log/slog"

type Option func(*Disambiguator)

// WithLogger sets disambiguator logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Disambiguator) {
		if logger != nil {
			d.logger = logger
		}
	}
}
