package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/middlewares"
	"github.com/dmitrymomot/restbase/pkg/response"
)

// Config is the core settings surface of a restbase application.
type Config struct {
	// Debug bypasses the access guards.
	Debug bool `yaml:"debug" env:"DEBUG" envDefault:"false"`

	// Response renames the envelope fields.
	Response response.FieldNames `yaml:"response"`

	// DefaultPageSize is the page size of list views when the request has none.
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" envDefault:"10"`

	// NormalizeStatus sends every envelope with HTTP 200.
	NormalizeStatus bool `yaml:"normalize_status" env:"NORMALIZE_STATUS" envDefault:"true"`

	// StatusAsCode reports intercepted error statuses with the status as code.
	StatusAsCode bool `yaml:"status_as_code" env:"STATUS_AS_CODE" envDefault:"false"`

	// JSONPost lets POST requests carry a JSON body instead of a form.
	JSONPost bool `yaml:"json_post" env:"JSON_POST" envDefault:"false"`
}

// Guard returns the access guard settings.
func (c Config) Guard() middlewares.GuardConfig {
	return middlewares.GuardConfig{Debug: c.Debug}
}

// ExceptionOptions returns the Exception middleware options matching c.
func (c Config) ExceptionOptions() []middlewares.ExceptionOption {
	return []middlewares.ExceptionOption{
		middlewares.WithFieldNames(c.Response),
		middlewares.WithNormalizeStatus(c.NormalizeStatus),
		middlewares.WithStatusAsCode(c.StatusAsCode),
	}
}

// AppOptions returns the App options matching c.
func (c Config) AppOptions() []internal.Option {
	return []internal.Option{
		internal.WithFieldNames(c.Response),
		internal.WithJSONPost(c.JSONPost),
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	fsys     fs.FS
	file     string
	optional bool
	prefix   string
	environ  map[string]string
}

// WithFile reads a YAML file from the OS filesystem. An optional file may
// be missing.
func WithFile(path string, optional bool) Option {
	return func(l *loader) {
		l.fsys, l.file, l.optional = nil, path, optional
	}
}

// WithFS reads the YAML file name from fsys, e.g. an embed.FS.
func WithFS(fsys fs.FS, name string) Option {
	return func(l *loader) {
		l.fsys, l.file, l.optional = fsys, name, false
	}
}

// WithPrefix prepends prefix to every environment variable name.
func WithPrefix(prefix string) Option {
	return func(l *loader) {
		l.prefix = prefix
	}
}

// WithEnvironment replaces the process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

// noDefaults names a tag no field carries, so the final environment pass
// leaves file values alone.
const noDefaults = "envDefaultDisabled"

// Load fills dst, a pointer to a struct, from defaults, the YAML file and
// the environment.
func Load(dst any, opts ...Option) error {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	if err := env.ParseWithOptions(dst, l.envOptions("")); err != nil {
		return errors.Join(ErrParseEnv, err)
	}

	if l.file != "" {
		data, err := l.read()
		switch {
		case errors.Is(err, fs.ErrNotExist) && l.optional:
			return nil
		case err != nil:
			return fmt.Errorf("%w: %s: %w", ErrReadFile, l.file, err)
		}
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDecodeFile, l.file, err)
		}
		if err := env.ParseWithOptions(dst, l.envOptions(noDefaults)); err != nil {
			return errors.Join(ErrParseEnv, err)
		}
	}
	return nil
}

// New loads the core Config.
func New(opts ...Option) (Config, error) {
	var cfg Config
	if err := Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	cfg.Response = cfg.Response.WithDefaults()
	if cfg.DefaultPageSize < 0 {
		cfg.DefaultPageSize = 0
	}
	return cfg, nil
}

func (l *loader) envOptions(defaultTag string) env.Options {
	return env.Options{
		Environment:         l.environ,
		Prefix:              l.prefix,
		DefaultValueTagName: defaultTag,
	}
}

func (l *loader) read() ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, l.file)
	}
	return os.ReadFile(l.file)
}
