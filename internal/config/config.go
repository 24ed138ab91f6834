// internal/config/config.go
//
// This package handles configuration and the .jobboard directory structure.
// Every directory the board is launched from gets a .jobboard/ folder holding
// the config file and the session journal.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	// DataDir is the name of the directory we create in the working directory
	DataDir = ".jobboard"

	defaultHomePageSize    = 9
	defaultResultsPageSize = 10
	defaultLoadLatency     = 1500 * time.Millisecond
	defaultSubmitLatency   = 2 * time.Second
	defaultLogLevel        = "info"

	levelRule = "oneof=debug info warn error"
)

const defaultConfigYAML = `# jobboard configuration
version: 1

# Job catalog. Leave path empty to use the bundled listings.
catalog:
  path: ""

pagination:
  home_page_size: 9
  results_page_size: 10

# Simulated latency for loading states and application submission.
latency:
  load: 1.5s
  submit: 2s

log:
  level: info

# Directory the resume picker opens in. Defaults to the home directory.
uploads:
  start_dir: ""
`

// CatalogConfig points at an alternate job catalog document.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// PaginationConfig controls list page sizes.
type PaginationConfig struct {
	HomePageSize    int `yaml:"home_page_size" validate:"gte=1"`
	ResultsPageSize int `yaml:"results_page_size" validate:"gte=1"`
}

// LatencyConfig controls the simulated round trips.
type LatencyConfig struct {
	Load   Duration `yaml:"load" validate:"gte=0"`
	Submit Duration `yaml:"submit" validate:"gte=0"`
}

// LogConfig captures journal preferences.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// UploadConfig captures resume picker preferences.
type UploadConfig struct {
	StartDir string `yaml:"start_dir"`
}

// FileConfig models .jobboard/config.yaml.
type FileConfig struct {
	Version    int              `yaml:"version" validate:"gte=1"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Pagination PaginationConfig `yaml:"pagination"`
	Latency    LatencyConfig    `yaml:"latency"`
	Log        LogConfig        `yaml:"log"`
	Uploads    UploadConfig     `yaml:"uploads"`
}

// Config holds the runtime configuration for the board.
type Config struct {
	// WorkDir is the directory the board was launched from
	WorkDir string

	// DataDir is WorkDir/.jobboard
	DataDir string

	File FileConfig
}

// Duration decodes YAML strings like "1.5s" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML accepts Go duration strings or bare integers (milliseconds).
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// InitDataDir creates the .jobboard directory structure in the given directory.
//
// Structure created:
// .jobboard/
// ├── config.yaml
// └── logs/        <- session journal
func InitDataDir(workDir string) error {
	dataDir := filepath.Join(workDir, DataDir)
	if err := os.MkdirAll(filepath.Join(dataDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure data dir: %w", err)
	}
	return ensureConfigFile(filepath.Join(dataDir, "config.yaml"))
}

// New loads the config file under workDir and applies environment overrides.
func New(workDir string) (*Config, error) {
	cfg := &Config{
		WorkDir: workDir,
		DataDir: filepath.Join(workDir, DataDir),
		File:    defaultFileConfig(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	var result *multierror.Error
	result = multierror.Append(result, cfg.applyEnvOverrides(), cfg.File.validate())
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// JournalPath returns the session journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// Path returns the on-disk location for the config file.
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// CatalogPath returns the configured catalog document, or "" for the bundled one.
func (c *Config) CatalogPath() string {
	return c.File.Catalog.Path
}

// SetCatalogPath overrides the catalog document for this run only.
func (c *Config) SetCatalogPath(path string) {
	c.File.Catalog.Path = resolvePath(c.WorkDir, path)
}

// HomePageSize is the number of featured jobs per home page.
func (c *Config) HomePageSize() int {
	return c.File.Pagination.HomePageSize
}

// ResultsPageSize is the number of search results per page.
func (c *Config) ResultsPageSize() int {
	return c.File.Pagination.ResultsPageSize
}

// LoadLatency is the simulated delay before listings appear.
func (c *Config) LoadLatency() time.Duration {
	return time.Duration(c.File.Latency.Load)
}

// SubmitLatency is the simulated application round trip.
func (c *Config) SubmitLatency() time.Duration {
	return time.Duration(c.File.Latency.Submit)
}

// SetLatency overrides both simulated delays. Tests use zero.
func (c *Config) SetLatency(load, submit time.Duration) {
	c.File.Latency.Load = Duration(load)
	c.File.Latency.Submit = Duration(submit)
}

// LogLevel returns the normalized journal level.
func (c *Config) LogLevel() string {
	return c.File.Log.Level
}

// SetLogLevel overrides the journal level for this run only.
func (c *Config) SetLogLevel(level string) error {
	level = normalizeLevel(level)
	if err := validate.Var(level, levelRule); err != nil {
		return fmt.Errorf("config: unknown log level %q", level)
	}
	c.File.Log.Level = level
	return nil
}

// UploadStartDir is where the resume picker opens.
func (c *Config) UploadStartDir() string {
	if dir := c.File.Uploads.StartDir; dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return c.WorkDir
}

func (c *Config) load() error {
	path := c.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.WorkDir)
	c.File = parsed
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if path := strings.TrimSpace(os.Getenv("JOBBOARD_CATALOG")); path != "" {
		c.File.Catalog.Path = resolvePath(c.WorkDir, path)
	}
	if level := strings.TrimSpace(os.Getenv("JOBBOARD_LOG_LEVEL")); level != "" {
		c.File.Log.Level = normalizeLevel(level)
	}
	var result *multierror.Error
	for _, env := range []struct {
		name   string
		target *Duration
	}{
		{"JOBBOARD_LOAD_LATENCY", &c.File.Latency.Load},
		{"JOBBOARD_SUBMIT_LATENCY", &c.File.Latency.Submit},
	} {
		name := env.name
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}
		d, err := parseDuration(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			continue
		}
		*env.target = Duration(d)
	}
	return result.ErrorOrNil()
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Pagination: PaginationConfig{
			HomePageSize:    defaultHomePageSize,
			ResultsPageSize: defaultResultsPageSize,
		},
		Latency: LatencyConfig{
			Load:   Duration(defaultLoadLatency),
			Submit: Duration(defaultSubmitLatency),
		},
		Log: LogConfig{Level: defaultLogLevel},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if fc.Pagination.HomePageSize == 0 {
		fc.Pagination.HomePageSize = defaultHomePageSize
	}
	if fc.Pagination.ResultsPageSize == 0 {
		fc.Pagination.ResultsPageSize = defaultResultsPageSize
	}
	if strings.TrimSpace(fc.Log.Level) == "" {
		fc.Log.Level = defaultLogLevel
	}
}

func (fc *FileConfig) normalize(base string) {
	fc.Catalog.Path = resolvePath(base, fc.Catalog.Path)
	fc.Uploads.StartDir = resolvePath(base, fc.Uploads.StartDir)
	fc.Log.Level = normalizeLevel(fc.Log.Level)
}

// validate reports every rule broken by the validate tags, named by YAML path.
func (fc *FileConfig) validate() error {
	err := validate.Struct(fc)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, describeFieldError(fe))
	}
	return result.ErrorOrNil()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeFieldError(fe validator.FieldError) error {
	field := stripPrefix(fe.Namespace())
	switch fe.Tag() {
	case "gte":
		return fmt.Errorf("%s must be >= %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Errorf("%s has invalid value %v: %s", field, fe.Value(), fe.Tag())
	}
}

// stripPrefix drops the struct type name from a validator namespace.
func stripPrefix(namespace string) string {
	if idx := strings.Index(namespace, "."); idx != -1 {
		return namespace[idx+1:]
	}
	return namespace
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	var ms int64
	if _, err := fmt.Sscanf(raw, "%d", &ms); err == nil && fmt.Sprint(ms) == raw {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("invalid duration %q", raw)
}

func normalizeLevel(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
