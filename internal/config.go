package internal

import (
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/frontmatter"
)

var extensionRe = regexp.MustCompile(`^\.[0-9a-z]+$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Images ImagesConfig      `yaml:"images"`
	Parser ParserConfig      `yaml:"parser"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Images.Validate(); err != nil {
		return err
	}
	return c.Parser.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig bounds what the document loader will read.
type VaultConfig struct {
	MaxDocumentSize int64 `yaml:"max_document_size"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxDocumentSize, validation.Required, validation.Min(int64(1))),
	)
}

// ImagesConfig bounds which image assets get copied.
type ImagesConfig struct {
	MaxSize    int64    `yaml:"max_size"`
	Extensions []string `yaml:"extensions"`
}

// Validate validates the images configuration.
func (c *ImagesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Extensions, validation.Required,
			validation.Each(validation.Required, validation.Match(extensionRe))),
	)
}

// ParserConfig selects the frontmatter decoding strategy.
type ParserConfig struct {
	Strategy string `yaml:"strategy"`
}

// Validate validates the parser configuration.
func (c *ParserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Strategy, validation.Required,
			validation.In(frontmatter.StrategyYAML, frontmatter.StrategyLine)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			MaxDocumentSize: 10 << 20, // 10 MB
		},
		Images: ImagesConfig{
			MaxSize:    50 << 20, // 50 MB
			Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		},
		Parser: ParserConfig{
			Strategy: frontmatter.StrategyYAML,
		},
	}
}
