package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/simpledocs/internal/foundation/errors"
)

// Defaults applied after decoding.
const (
	DefaultConfigFile = "config.yml"
	DefaultTocFile    = "toc.yml"
)

// envFiles are loaded (without overriding the process environment) before the
// configuration is expanded.
var envFiles = []string{".env", ".env.local"}

// Config represents the application configuration.
type Config struct {
	Build BuildConfig `yaml:"build"`
}

// BuildConfig holds the build section. Relative paths resolve against the
// working directory.
type BuildConfig struct {
	InputFolder  string `yaml:"input-folder"`
	OutputFolder string `yaml:"output-folder"`
	Title        string `yaml:"title"`
	TocFile      string `yaml:"toc-file,omitempty"`
	ReportFile   string `yaml:"report-file,omitempty"`     // optional build report JSON path
	MetricsFile  string `yaml:"metrics-file,omitempty"`    // optional Prometheus textfile path
	SafeHTML     bool   `yaml:"safe-html,omitempty"`       // drop raw HTML embedded in markdown
	SkipLinks    bool   `yaml:"skip-link-check,omitempty"` // omit the verify_links stage
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").Fatal().WithContext("path", configPath).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults and validates configuration YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().Build()
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Build.InputFolder = strings.TrimSpace(c.Build.InputFolder)
	c.Build.OutputFolder = strings.TrimSpace(c.Build.OutputFolder)
	c.Build.Title = strings.TrimSpace(c.Build.Title)
	if strings.TrimSpace(c.Build.TocFile) == "" {
		c.Build.TocFile = DefaultTocFile
	}
}

// Validate checks required keys and that the output folder can be replaced
// wholesale without touching the input.
func (c *Config) Validate() error {
	errs := validation.Errors{
		"build.input-folder":  validation.Validate(c.Build.InputFolder, validation.Required),
		"build.output-folder": validation.Validate(c.Build.OutputFolder, validation.Required, validation.By(c.outputIsReplaceable)),
		"build.title":         validation.Validate(c.Build.Title, validation.Required),
	}
	return errs.Filter()
}

func (c *Config) outputIsReplaceable(value any) error {
	out, _ := value.(string)
	outAbs, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err == nil && isWithin(cwd, outAbs) {
		return errors.New("must not be the working directory or one of its parents")
	}
	if c.Build.InputFolder == "" {
		return nil
	}
	inAbs, err := filepath.Abs(c.Build.InputFolder)
	if err != nil {
		return err
	}
	if isWithin(inAbs, outAbs) {
		return errors.New("must not contain the input folder")
	}
	return nil
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func loadEnvFiles() {
	for _, p := range envFiles {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load environment file", "path", p, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", p)
	}
}

const exampleToc = `# Navigation manifest: an ordered list of {href, topics} entries.
- href: getting-started.md
  topics:
    - href: guide/installation.md
`

const (
	exampleStart   = "# Getting Started\n\nWrite your documentation in markdown.\n"
	exampleInstall = "---\ntitle: Installation\n---\n\nPages can set their title in front matter.\n"
)

// Init writes an example configuration and, next to it, an example manifest
// and input folder. Existing files are kept unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{Build: BuildConfig{
		InputFolder:  "docs",
		OutputFolder: "site",
		Title:        "My Documentation",
		TocFile:      DefaultTocFile,
	}}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	base := filepath.Dir(configPath)
	files := []struct {
		path string
		data []byte
	}{
		{configPath, data},
		{filepath.Join(base, DefaultTocFile), []byte(exampleToc)},
		{filepath.Join(base, "docs", "getting-started.md"), []byte(exampleStart)},
		{filepath.Join(base, "docs", "guide", "installation.md"), []byte(exampleInstall)},
	}
	for i, f := range files {
		if i > 0 && !force {
			if _, err := os.Stat(f.path); err == nil {
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return ferrors.FileSystemError("create directory").WithCause(err).WithContext("path", f.path).Build()
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return ferrors.FileSystemError("write file").WithCause(err).WithContext("path", f.path).Build()
		}
	}
	return nil
}
