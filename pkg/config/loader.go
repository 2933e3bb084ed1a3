package config

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/macropower/iconify/api"
	"github.com/macropower/iconify/api/v1beta1"
	"github.com/macropower/iconify/api/v1beta1/configs"
	"github.com/macropower/iconify/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator   Validator
	sourceLines int
}

// WithValidator sets a custom schema validator. A nil validator disables
// schema validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithSourceLines sets how many lines of context are shown around errors.
func WithSourceLines(n int) LoaderOpt {
	return func(o *loaderOptions) {
		o.sourceLines = n
	}
}

// Loader decodes and validates configuration of type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator:   defaultValidator,
		sourceLines: 2,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		yamlError: yaml.NewErrorWrapper(
			yaml.WithSource(data),
			yaml.WithSourceLines(options.sourceLines),
		),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate validates the configuration data against the schema, without
// decoding it into T.
func (l *Loader[T]) Validate() error {
	var anyConfig any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator == nil {
		return nil
	}

	return l.yamlError.Wrap(l.validator.Validate(anyConfig))
}

// Load decodes the configuration, applies defaults, and runs the type's own
// validation.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	cfg := l.newFunc()

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(cfg)
	if err != nil {
		return zero, l.yamlError.Wrap(err)
	}

	cfg.EnsureDefaults()

	err = cfg.Validate()
	if err != nil {
		return zero, l.yamlError.Wrap(err)
	}

	return cfg, nil
}

// ValidateAndLoad runs [Loader.Validate] followed by [Loader.Load].
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) ValidateAndLoad() (T, error) {
	err := l.Validate()
	if err != nil {
		var zero T
		return zero, err
	}

	return l.Load()
}

// Resolve returns the configuration file to use for the project at
// projectPath: an explicit path wins, then a project file found in
// projectPath or its parents, then the user configuration file.
func Resolve(explicit, projectPath string) string {
	if explicit != "" {
		return explicit
	}

	if projectPath != "" {
		found, err := api.FindConfigFile(projectPath, configs.ProjectFileNames)
		if err != nil {
			slog.Debug("search for project config", slog.Any("err", err))
		}
		if found != "" {
			return found
		}
	}

	return configs.GetPath()
}

// Load reads and validates the [configs.Config] at path.
func Load(path string) (*configs.Config, error) {
	l, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	if err != nil {
		return nil, err
	}

	cfg, err := l.ValidateAndLoad()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}
