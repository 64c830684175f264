package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/iamgen/inspector/graph"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		expectErr bool
		check     func(t *testing.T, c *Config)
	}{
		{
			name: "overrides keep unspecified defaults",
			content: `workers: 2
region: us-east-1
statement-ids: true
skip-tests: false
exclude: [fixtures]
languages:
  .mjs: typescript
`,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2, c.Workers)
				assert.Equal(t, "us-east-1", c.Region)
				assert.Equal(t, "aws", c.Partition)
				assert.Equal(t, "*", c.Account)
				assert.Equal(t, FormatJSON, c.Format)
				assert.True(t, c.StatementIDs)
				assert.False(t, c.SkipTests)
				assert.Equal(t, []string{"fixtures"}, c.Exclude)
				assert.Equal(t, graph.LanguageTypeScript, c.Language("src/app.mjs"))
			},
		},
		{
			name:      "unsupported format",
			content:   "format: xml\n",
			expectErr: true,
		},
		{
			name:      "unsupported language",
			content:   "languages:\n  .rb: ruby\n",
			expectErr: true,
		},
		{
			name:      "malformed yaml",
			content:   "workers: [\n",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location := filepath.Join(t.TempDir(), "iamgen.yaml")
			require.NoError(t, os.WriteFile(location, []byte(tt.content), 0o644))
			c, err := Load(context.Background(), afs.New(), location)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestConfig_Keys(t *testing.T) {
	configType := reflect.TypeOf(Config{})
	for i := 0; i < configType.NumField(); i++ {
		field := configType.Field(i)
		t.Run(field.Name, func(t *testing.T) {
			key, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			assert.Equal(t, field.Tag.Get("mapstructure"), key)
		})
	}
}

func TestConfig_Language(t *testing.T) {
	c := New()
	assert.Equal(t, graph.LanguageUnknown, c.Language("main.go"))
	c.Languages = map[string]string{"scripts/build": "python", ".es6": "javascript"}
	assert.Equal(t, graph.LanguagePython, c.Language("scripts/build"))
	assert.Equal(t, graph.LanguageJavaScript, c.Language("lib/index.ES6"))
	assert.Equal(t, graph.LanguageUnknown, c.Language("main.go"))
}

func TestConfig_Validate(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())
	c.Workers = 0
	assert.Error(t, c.Validate())
}
