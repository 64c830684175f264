package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

var setupNameExpr = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	fs      afs.Service
	markers []string
}

// New creates a new project detector instance
func New(fs afs.Service) *Detector {
	if fs == nil {
		fs = afs.New()
	}
	return &Detector{
		fs: fs,
		markers: []string{
			"go.mod",
			"package.json",
			"pyproject.toml",
			"setup.py",
			"requirements.txt",
			".git",
		},
	}
}

// Detect identifies the project containing location, a location outside any project is its own root
func (d *Detector) Detect(ctx context.Context, location string) (*Project, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	info, err := d.fs.Object(ctx, absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}
	project := &Project{Root: startDir, Type: TypeUnknown}
	if root, marker := d.findProjectRoot(ctx, startDir); root != "" {
		project.Root = root
		project.Type = projectType(marker)
	}
	if relative, err := filepath.Rel(project.Root, absPath); err == nil {
		project.RelativePath = filepath.ToSlash(relative)
	}
	project.Name = filepath.Base(project.Root)
	switch project.Type {
	case TypeGo:
		if modulePath := d.modulePath(ctx, project.Root); modulePath != "" {
			project.ModulePath = modulePath
			project.Name = modulePath
		}
	case TypeJavaScript:
		if name := d.packageName(ctx, project.Root); name != "" {
			project.Name = name
		}
	case TypePython:
		if name := d.pythonName(ctx, project.Root); name != "" {
			project.Name = name
		}
	}
	return project, nil
}

// findProjectRoot searches up from the start directory for project markers
func (d *Detector) findProjectRoot(ctx context.Context, startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if ok, _ := d.fs.Exists(ctx, filepath.Join(dir, marker)); ok {
				return dir, marker
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func (d *Detector) modulePath(ctx context.Context, root string) string {
	location := filepath.Join(root, "go.mod")
	content, err := d.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return ""
	}
	return modfile.ModulePath(content)
}

func (d *Detector) packageName(ctx context.Context, root string) string {
	content, err := d.fs.DownloadWithURL(ctx, filepath.Join(root, "package.json"))
	if err != nil {
		return ""
	}
	manifest := struct {
		Name string `json:"name"`
	}{}
	if err := json.Unmarshal(content, &manifest); err != nil {
		return ""
	}
	return manifest.Name
}

func (d *Detector) pythonName(ctx context.Context, root string) string {
	if content, err := d.fs.DownloadWithURL(ctx, filepath.Join(root, "pyproject.toml")); err == nil {
		manifest := struct {
			Project struct {
				Name string `toml:"name"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Name string `toml:"name"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}{}
		if err := toml.Unmarshal(content, &manifest); err == nil {
			if manifest.Project.Name != "" {
				return manifest.Project.Name
			}
			if manifest.Tool.Poetry.Name != "" {
				return manifest.Tool.Poetry.Name
			}
		}
	}
	if content, err := d.fs.DownloadWithURL(ctx, filepath.Join(root, "setup.py")); err == nil {
		if matches := setupNameExpr.FindSubmatch(content); len(matches) == 2 {
			return string(matches[1])
		}
	}
	return ""
}

// projectType identifies the type of project based on the marker file
func projectType(marker string) string {
	switch marker {
	case "go.mod":
		return TypeGo
	case "package.json":
		return TypeJavaScript
	case "pyproject.toml", "setup.py", "requirements.txt":
		return TypePython
	case ".git":
		return TypeGit
	}
	return TypeUnknown
}
