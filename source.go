package iamgen

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/iamgen/analyzer/call"
	"github.com/viant/iamgen/inspector/graph"
)

var skipDirs = map[string]bool{
	"vendor":        true,
	"node_modules":  true,
	".git":          true,
	".hg":           true,
	".svn":          true,
	"venv":          true,
	".venv":         true,
	"virtualenv":    true,
	"site-packages": true,
	"__pycache__":   true,
	".tox":          true,
	".mypy_cache":   true,
	"dist":          true,
	"build":         true,
	"target":        true,
	"coverage":      true,
	"cdk.out":       true,
	".next":         true,
	".serverless":   true,
	"testdata":      true,
}

var testDirs = map[string]bool{
	"test":      true,
	"tests":     true,
	"__tests__": true,
	"__mocks__": true,
}

// source represents file scheduled for analysis
type source struct {
	path       string
	language   graph.Language // explicit override
	modulePath string
}

// collect expands input paths into source files, unreadable inputs become diagnostics
func (s *Service) collect(ctx context.Context, paths []string) ([]*source, call.Diagnostics, error) {
	var sources []*source
	var diagnostics call.Diagnostics
	seen := map[string]bool{}
	add := func(candidate *source) {
		if seen[candidate.path] {
			return
		}
		seen[candidate.path] = true
		sources = append(sources, candidate)
	}
	for _, location := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		object, err := s.fs.Object(ctx, location)
		if err != nil {
			diagnostics = append(diagnostics, readError(location, err.Error()))
			continue
		}
		modulePath := ""
		if project, err := s.detector.Detect(ctx, location); err == nil {
			modulePath = project.ModulePath
			s.logger.Debug("detected project", "path", location, "root", project.Root, "type", project.Type, "name", project.Name)
		}
		if !object.IsDir() {
			language := s.config.Language(location)
			if language == graph.LanguageUnknown && !s.factory.Supported(location) {
				diagnostics = append(diagnostics, readError(location, "unsupported file type: "+filepath.Ext(location)))
				continue
			}
			add(&source{path: location, language: language, modulePath: modulePath})
			continue
		}
		local := url.Scheme(location, "") == ""
		var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
			name := info.Name()
			if info.IsDir() {
				return !s.skipDir(name), nil
			}
			if s.config.SkipTests && isTestFile(name) {
				return true, nil
			}
			path := url.Join(url.Join(baseURL, parent), name)
			if local {
				path = url.Path(path)
			}
			language := s.config.Language(path)
			if language == graph.LanguageUnknown && !s.factory.Supported(name) {
				return true, nil
			}
			add(&source{path: path, language: language, modulePath: modulePath})
			return true, nil
		}
		if err := s.fs.Walk(ctx, location, visitor); err != nil {
			diagnostics = append(diagnostics, readError(location, err.Error()))
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].path < sources[j].path
	})
	return sources, diagnostics, nil
}

func (s *Service) skipDir(name string) bool {
	if skipDirs[name] {
		return true
	}
	if s.config.SkipTests && testDirs[name] {
		return true
	}
	for _, excluded := range s.config.Exclude {
		if excluded == name {
			return true
		}
	}
	return false
}

// isTestFile reports go, python and javascript test file naming conventions
func isTestFile(name string) bool {
	switch {
	case strings.HasSuffix(name, "_test.go"):
		return true
	case strings.HasSuffix(name, ".py"):
		return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py") || name == "conftest.py"
	}
	return strings.Contains(name, ".test.") || strings.Contains(name, ".spec.")
}

func readError(location, detail string) *call.Diagnostic {
	return &call.Diagnostic{File: location, Kind: call.ReadError, Detail: detail}
}
