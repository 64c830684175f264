package repository

// Project type names
const (
	TypeGo         = "go"
	TypeJavaScript = "javascript"
	TypePython     = "python"
	TypeGit        = "git"
	TypeUnknown    = "unknown"
)

// Project represents information about a detected project
type Project struct {
	Root         string // absolute project root directory
	Type         string // go, javascript, python, git or unknown
	Name         string // name from the project manifest, root directory name otherwise
	ModulePath   string // go module path, used to classify local imports
	RelativePath string // slash separated path from project root to the inspected location
}
