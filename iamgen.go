package iamgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/iamgen/analyzer"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/catalog"
	"github.com/viant/iamgen/config"
	"github.com/viant/iamgen/disambiguator"
	"github.com/viant/iamgen/inspector"
	"github.com/viant/iamgen/inspector/graph"
	"github.com/viant/iamgen/inspector/repository"
	"github.com/viant/iamgen/policy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Service generates least privilege IAM policies from application source code
type Service struct {
	config        *config.Config
	fs            afs.Service
	logger        *slog.Logger
	tracer        trace.Tracer
	catalog       *catalog.Catalog
	factory       *inspector.Factory
	detector      *repository.Detector
	disambiguator *disambiguator.Disambiguator
	mapper        *policy.Mapper
	synthesizer   *policy.Synthesizer
}

// fileResult represents outcome of one source file
type fileResult struct {
	source      *Source
	calls       []*call.Result
	diagnostics call.Diagnostics
}

// New creates a service, loading the knowledge base named by config or the embedded one
func New(ctx context.Context, cfg *config.Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ret := &Service{
		config:  cfg,
		fs:      afs.New(),
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer("github.com/viant/iamgen"),
		factory: inspector.NewFactory(),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.catalog == nil {
		kb, err := loadCatalog(ctx, ret.fs, cfg.Catalog)
		if err != nil {
			return nil, err
		}
		ret.catalog = kb
	}
	ret.detector = repository.New(ret.fs)
	ret.disambiguator = disambiguator.New(ret.catalog, disambiguator.WithLogger(ret.logger))
	ret.mapper = policy.NewMapper(ret.catalog,
		policy.WithEnvironment(cfg.Partition, cfg.Region, cfg.Account),
		policy.WithLogger(ret.logger))
	ret.synthesizer = policy.NewSynthesizer(policy.WithStatementIDs(cfg.StatementIDs))
	return ret, nil
}

func loadCatalog(ctx context.Context, fs afs.Service, URL string) (*catalog.Catalog, error) {
	if URL == "" {
		return catalog.Default()
	}
	return catalog.Load(ctx, fs, URL)
}

// Generate analyzes files and directories and returns the synthesized policy with its diagnostics
func (s *Service) Generate(ctx context.Context, paths ...string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "iamgen.Generate")
	defer span.End()

	sources, diagnostics, err := s.collect(ctx, paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	analyzers := map[string]*analyzer.Analyzer{}
	for _, src := range sources {
		if _, ok := analyzers[src.modulePath]; !ok {
			analyzers[src.modulePath] = s.analyzer(src.modulePath)
		}
	}
	files := make([]*fileResult, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(s.config.Workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files[i] = s.process(ctx, analyzers[src.modulePath], src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var calls []*call.Result
	var analyzed []*Source
	for _, file := range files {
		if file.source != nil {
			analyzed = append(analyzed, file.source)
		}
		calls = append(calls, file.calls...)
		diagnostics = append(diagnostics, file.diagnostics...)
	}
	mappings, unmapped := s.mapper.MapAll(calls)
	diagnostics = append(diagnostics, unmapped...)
	diagnostics.Sort()

	document := s.synthesize(ctx, mappings)
	digest, err := document.Digest()
	if err != nil {
		return nil, err
	}
	result := &Result{
		Policy:      document,
		Diagnostics: diagnostics,
		Digest:      digest,
		Files:       len(sources),
	}
	if s.config.Raw {
		result.Calls = calls
		result.Mappings = mappings
		result.Sources = analyzed
	}
	span.SetAttributes(
		attribute.Int("iamgen.files", len(sources)),
		attribute.Int("iamgen.calls", len(calls)),
		attribute.Int("iamgen.statements", len(document.Statement)),
		attribute.Int("iamgen.diagnostics", len(diagnostics)),
	)
	s.logger.Info("generated policy", "files", len(sources), "calls", len(calls), "statements", len(document.Statement), "diagnostics", len(diagnostics))
	return result, nil
}

func (s *Service) synthesize(ctx context.Context, mappings []*policy.Mapping) *policy.Document {
	_, span := s.tracer.Start(ctx, "iamgen.Synthesize", trace.WithAttributes(attribute.Int("iamgen.mappings", len(mappings))))
	defer span.End()
	return s.synthesizer.Synthesize(mappings)
}

// process parses, walks and disambiguates one file, failures are isolated to the file
func (s *Service) process(ctx context.Context, extractor *analyzer.Analyzer, src *source) *fileResult {
	ctx, span := s.tracer.Start(ctx, "iamgen.File", trace.WithAttributes(attribute.String("iamgen.path", src.path)))
	defer span.End()
	ret := &fileResult{}
	language, err := s.factory.Detect(src.path, src.language)
	if err != nil {
		ret.diagnostics = append(ret.diagnostics, readError(src.path, err.Error()))
		return ret
	}
	span.SetAttributes(attribute.String("iamgen.language", string(language)))
	data, err := s.fs.DownloadWithURL(ctx, src.path)
	if err != nil {
		s.logger.Warn("failed to read source", "path", src.path, "error", err)
		span.RecordError(err)
		ret.diagnostics = append(ret.diagnostics, readError(src.path, err.Error()))
		return ret
	}
	unit := graph.NewSourceUnit(src.path, language, data)
	hash, err := unit.Hash()
	if err != nil {
		ret.diagnostics = append(ret.diagnostics, readError(src.path, err.Error()))
		return ret
	}
	ret.source = &Source{Path: src.path, Language: language, Hash: hash}
	tree, err := s.factory.Parse(ctx, unit)
	if err != nil {
		s.logger.Warn("failed to parse source", "path", src.path, "error", err)
		span.RecordError(err)
		var parseError *inspector.ParseError
		if errors.As(err, &parseError) {
			ret.diagnostics = append(ret.diagnostics, &call.Diagnostic{
				File:     src.path,
				Location: graph.Location{Line: parseError.Line},
				Kind:     call.ParseError,
				Detail:   parseError.Message,
			})
			return ret
		}
		ret.diagnostics = append(ret.diagnostics, readError(src.path, err.Error()))
		return ret
	}
	defer tree.Close()
	file, err := extractor.Analyze(ctx, tree)
	if err != nil {
		span.RecordError(err)
		ret.diagnostics = append(ret.diagnostics, readError(src.path, err.Error()))
		return ret
	}
	calls, unresolved := s.disambiguator.Resolve(file)
	ret.calls = calls
	ret.diagnostics = append(ret.diagnostics, file.Diagnostics...)
	ret.diagnostics = append(ret.diagnostics, unresolved...)
	span.SetAttributes(attribute.Int("iamgen.sites", len(file.Sites)))
	s.logger.Debug("processed file", "path", src.path, "language", language, "sites", len(file.Sites), "unresolved", len(unresolved))
	return ret
}

// analyzer creates call site extractor treating imports of go module path as local
func (s *Service) analyzer(modulePath string) *analyzer.Analyzer {
	return analyzer.New(s.catalog,
		analyzer.WithLogger(s.logger),
		analyzer.WithPrecision(s.config.Precision),
		analyzer.WithModulePath(modulePath))
}
