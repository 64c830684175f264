package analyzer

import (
	"log/slog"
)

type Option func(*Analyzer)

// WithLogger sets analyzer logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPrecision drops paginators and waiters that are constructed but never driven
func WithPrecision(precision bool) Option {
	return func(a *Analyzer) {
		a.precision = precision
	}
}

// WithModulePath sets go module path used to classify local package imports
func WithModulePath(modulePath string) Option {
	return func(a *Analyzer) {
		a.modulePath = modulePath
	}
}
