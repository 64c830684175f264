package iamgen

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/iamgen/catalog"
	"go.opentelemetry.io/otel/trace"
)

type Option func(*Service)

// WithLogger sets service logger, shared with pipeline components
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS sets file system used to read sources and knowledge base
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithTracer sets tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithCatalog sets preloaded knowledge base
func WithCatalog(kb *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = kb
	}
}
