// Package config provides autoswagger configuration management with support
// for TOML files, descriptor options, and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Gobd/autoswagger"
	"github.com/Gobd/autoswagger/openapi"
	"github.com/asaskevich/govalidator"
	"github.com/docker/go-units"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigFile is the default tool configuration file name.
	ConfigFile = "autoswagger.toml"

	// OptionsKey is the descriptor custom section holding options.
	OptionsKey = "autoswagger"
)

// Environment overrides.
const (
	EnvTypeFiles        = "AUTOSWAGGER_TYPEFILES"
	EnvTitle            = "AUTOSWAGGER_TITLE"
	EnvVersion          = "AUTOSWAGGER_VERSION"
	EnvHost             = "AUTOSWAGGER_HOST"
	EnvBasePath         = "AUTOSWAGGER_BASE_PATH"
	EnvOutput           = "AUTOSWAGGER_OUTPUT"
	EnvFormat           = "AUTOSWAGGER_FORMAT"
	EnvOpenAPI3         = "AUTOSWAGGER_OPENAPI3"
	EnvConvertCommand   = "AUTOSWAGGER_CONVERT_COMMAND"
	EnvMaxSourceSize    = "AUTOSWAGGER_MAX_SOURCE_SIZE"
	EnvDescriptorOutput = "AUTOSWAGGER_DESCRIPTOR_OUTPUT"
)

// Defaults.
const (
	DefaultSwaggerPath      = "swagger"
	DefaultFunctionName     = "swagger"
	DefaultHandler          = "swagger/swagger.handler"
	DefaultDescriptorOutput = ".autoswagger/serverless.yml"
	DefaultMaxSourceSize    = "10MB"
)

// Config is the complete autoswagger configuration. TOML keys are used in the
// tool configuration file, JSON keys in the descriptor's custom.autoswagger
// section.
type Config struct {
	TypeFiles         []string      `toml:"typefiles" json:"typefiles"`
	Title             string        `toml:"title" json:"title"`
	Version           string        `toml:"version" json:"version"`
	Host              string        `toml:"host" json:"host"`
	BasePath          string        `toml:"base_path" json:"basePath"`
	Schemes           []string      `toml:"schemes" json:"schemes"`
	SwaggerPath       string        `toml:"swagger_path" json:"swaggerPath"`
	FunctionName      string        `toml:"function_name" json:"functionName"`
	Handler           string        `toml:"handler" json:"handler"`
	Output            string        `toml:"output" json:"output"`
	Format            string        `toml:"format" json:"format"`
	// OpenAPI3 is the path of the optional OpenAPI 3 companion file.
	OpenAPI3          string        `toml:"openapi3" json:"openapi3"`
	DescriptorOutput  string        `toml:"descriptor_output" json:"descriptorOutput"`
	ConvertCommand    []string      `toml:"convert_command" json:"convertCommand"`
	MaxSourceSize     string        `toml:"max_source_size" json:"maxSourceSize"`
	SourceConcurrency int           `toml:"source_concurrency" json:"sourceConcurrency"`
	Logging           LoggingConfig `toml:"logging" json:"logging"`

	maxSourceSizeVal int64
}

// MaxSourceSizeBytes returns the parsed source size limit. It is valid after
// Finalize.
func (c *Config) MaxSourceSizeBytes() int64 {
	return c.maxSourceSizeVal
}

// Options returns the document-level generator options.
func (c *Config) Options() autoswagger.Options {
	return autoswagger.Options{
		Title:    c.Title,
		Version:  c.Version,
		Host:     c.Host,
		BasePath: c.BasePath,
		Schemes:  c.Schemes,
	}
}

// Load reads the TOML configuration at path. A missing file yields an empty
// configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the
// configuration.
func (c *Config) Finalize() error {
	c.loadEnv()
	c.loadDefaults()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if len(overlay.TypeFiles) > 0 {
		c.TypeFiles = overlay.TypeFiles
	}
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if len(overlay.Schemes) > 0 {
		c.Schemes = overlay.Schemes
	}
	if overlay.SwaggerPath != "" {
		c.SwaggerPath = overlay.SwaggerPath
	}
	if overlay.FunctionName != "" {
		c.FunctionName = overlay.FunctionName
	}
	if overlay.Handler != "" {
		c.Handler = overlay.Handler
	}
	if overlay.Output != "" {
		c.Output = overlay.Output
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.OpenAPI3 != "" {
		c.OpenAPI3 = overlay.OpenAPI3
	}
	if overlay.DescriptorOutput != "" {
		c.DescriptorOutput = overlay.DescriptorOutput
	}
	if len(overlay.ConvertCommand) > 0 {
		c.ConvertCommand = overlay.ConvertCommand
	}
	if overlay.MaxSourceSize != "" {
		c.MaxSourceSize = overlay.MaxSourceSize
	}
	if overlay.SourceConcurrency != 0 {
		c.SourceConcurrency = overlay.SourceConcurrency
	}
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) loadDefaults() {
	if len(c.TypeFiles) == 0 {
		c.TypeFiles = []string{autoswagger.DefaultTypeFile}
	}
	if c.Version == "" {
		c.Version = autoswagger.DefaultVersion
	}
	if len(c.Schemes) == 0 {
		c.Schemes = append([]string(nil), autoswagger.DefaultSchemes...)
	}
	if c.SwaggerPath == "" {
		c.SwaggerPath = DefaultSwaggerPath
	}
	if c.FunctionName == "" {
		c.FunctionName = DefaultFunctionName
	}
	if c.Handler == "" {
		c.Handler = DefaultHandler
	}
	if c.Format == "" {
		c.Format = string(openapi.FormatJS)
	}
	if c.Output == "" {
		c.Output = "swagger/swagger." + c.Format
	}
	if c.DescriptorOutput == "" {
		c.DescriptorOutput = DefaultDescriptorOutput
	}
	if c.MaxSourceSize == "" {
		c.MaxSourceSize = DefaultMaxSourceSize
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTypeFiles); v != "" {
		c.TypeFiles = splitList(v)
	}
	if v := os.Getenv(EnvTitle); v != "" {
		c.Title = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvOpenAPI3); v != "" {
		c.OpenAPI3 = v
	}
	if v := os.Getenv(EnvConvertCommand); v != "" {
		c.ConvertCommand = strings.Fields(v)
	}
	if v := os.Getenv(EnvMaxSourceSize); v != "" {
		c.MaxSourceSize = v
	}
	if v := os.Getenv(EnvDescriptorOutput); v != "" {
		c.DescriptorOutput = v
	}
}

var (
	semver = validation.NewStringRule(govalidator.IsSemver, "must be a semantic version")

	humanSize = validation.By(func(value any) error {
		s, _ := value.(string)
		size, err := units.FromHumanSize(s)
		if err != nil {
			return errors.New("must be a size such as 512KB or 10MB")
		}
		if size < 0 {
			return errors.New("must not be negative")
		}
		return nil
	})
)

func (c *Config) validate() error {
	formats := make([]any, 0, len(openapi.Formats))
	for _, f := range openapi.Formats {
		formats = append(formats, string(f))
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.TypeFiles, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.Version, validation.Required, semver),
		validation.Field(&c.Host, validation.By(hostPort)),
		validation.Field(&c.BasePath, validation.Match(regexp.MustCompile(`^/`)).Error("must start with /")),
		validation.Field(&c.Schemes, validation.Each(validation.In("http", "https", "ws", "wss"))),
		validation.Field(&c.SwaggerPath, validation.Required, validation.By(notRoot)),
		validation.Field(&c.FunctionName, validation.Required),
		validation.Field(&c.Handler, validation.Required),
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.Format, validation.In(formats...)),
		validation.Field(&c.DescriptorOutput, validation.Required),
		validation.Field(&c.MaxSourceSize, humanSize),
		validation.Field(&c.SourceConcurrency, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	c.maxSourceSizeVal, _ = units.FromHumanSize(c.MaxSourceSize)
	return nil
}

// hostPort accepts a host name or IP address with an optional :port.
func hostPort(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	host, port := s, ""
	if i := strings.LastIndexByte(s, ':'); i >= 0 && !strings.Contains(s[:i], ":") {
		host, port = s[:i], s[i+1:]
	}
	if err := is.Host.Validate(host); err != nil {
		return err
	}
	if port == "" && host != s {
		return errors.New("must not end with an empty port")
	}
	if port != "" {
		return is.Port.Validate(port)
	}
	return nil
}

func notRoot(value any) error {
	if s, _ := value.(string); strings.Trim(s, "/ ") == "" {
		return errors.New("must name a path below /")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
