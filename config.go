package event_fetcher

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultOutputDir        = "downloads"
	DefaultFilenameTemplate = "{{.Number}} - {{.Title}}"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// RunConfig carries every tunable of a run. It is passed explicitly to the components that need it.
type RunConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Entries     string `yaml:"entries"`
	Interactive bool   `yaml:"interactive"`
	LogLevel    string `yaml:"log_level"`
	// Parallelism is the number of concurrent downloads in non-interactive mode.
	Parallelism int `yaml:"parallelism"`
	// Retries is the number of extra attempts per candidate after a retryable failure.
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	// Timeout bounds each individual HTTP attempt, including reading the body.
	Timeout          time.Duration `yaml:"timeout"`
	UserAgent        string        `yaml:"user_agent"`
	FilenameTemplate string        `yaml:"filename_template"`
	// PromptAttempts bounds how many invalid answers an interactive prompt accepts before skipping.
	PromptAttempts int `yaml:"prompt_attempts"`
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		OutputDir:        DefaultOutputDir,
		LogLevel:         "info",
		Parallelism:      4,
		Retries:          1,
		RetryDelay:       2 * time.Second,
		Timeout:          15 * time.Minute,
		UserAgent:        DefaultUserAgent,
		FilenameTemplate: DefaultFilenameTemplate,
		PromptAttempts:   3,
	}
}

// LoadRunConfig decodes a YAML file over base, so that keys absent from the file keep their base value.
func LoadRunConfig(path string, base RunConfig) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &ConfigurationError{Op: "read config file", Path: path, Err: err}
	}
	cfg := base
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return base, &ConfigurationError{Op: "parse config file", Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks the configuration, returning a *ConfigurationError for the first problem found.
func (c RunConfig) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return &ConfigurationError{Op: "validate config", Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...)}
	}
	switch {
	case strings.TrimSpace(c.OutputDir) == "":
		return invalid("output directory must be set")
	case c.Parallelism < 1:
		return invalid("parallelism must be at least 1, got %d", c.Parallelism)
	case c.Retries < 0:
		return invalid("retries must not be negative, got %d", c.Retries)
	case c.RetryDelay < 0:
		return invalid("retry delay must not be negative, got %v", c.RetryDelay)
	case c.Timeout < 0:
		return invalid("timeout must not be negative, got %v", c.Timeout)
	case c.PromptAttempts < 1:
		return invalid("prompt attempts must be at least 1, got %d", c.PromptAttempts)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ConfigurationError{Op: "validate config", Err: err}
	}
	if _, err := c.targetTemplate(); err != nil {
		return &ConfigurationError{Op: "validate config", Err: fmt.Errorf("%w: filename template: %v", ErrInvalidConfig, err)}
	}
	return nil
}

// EntryFilter parses the Entries setting.
func (c RunConfig) EntryFilter() EntryFilter {
	return ParseEntryFilter(c.Entries)
}

// TargetName renders the unsanitised destination filename for an entry.
func (c RunConfig) TargetName(e Entry) (string, error) {
	tmpl, err := c.targetTemplate()
	if err != nil {
		return "", err
	}
	args := targetFileTemplateArgs{
		Number: e.Number,
		Title:  e.Title,
		Author: e.Author,
		Team:   e.Team.UnwrapOrDefault(),
		Size:   e.Size.UnwrapOrDefault(),
	}
	builder := strings.Builder{}
	if err := tmpl.Execute(&builder, &args); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func (c RunConfig) targetTemplate() (*template.Template, error) {
	text := c.FilenameTemplate
	if text == "" {
		text = DefaultFilenameTemplate
	}
	return template.New("target_file").Option("missingkey=error").Parse(text)
}

type targetFileTemplateArgs struct {
	Number string
	Title  string
	Author string
	Team   string
	Size   string
}
