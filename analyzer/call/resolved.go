package call

// Confidence represents disambiguation outcome
type Confidence string

const (
	Resolved   Confidence = "Resolved"
	Unresolved Confidence = "Unresolved"
)

// Result represents call site after disambiguation
type Result struct {
	Site       *Site      `json:"site" yaml:"site"`
	Service    string     `json:"service,omitempty" yaml:"service,omitempty"`
	Operation  string     `json:"operation,omitempty" yaml:"operation,omitempty"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Candidates []string   `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Evidence   string     `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// IsResolved returns true for resolved call
func (c *Result) IsResolved() bool {
	return c.Confidence == Resolved
}

// Arguments returns resource arguments
func (c *Result) Arguments() Arguments {
	if c.Site == nil {
		return nil
	}
	return c.Site.Args
}
