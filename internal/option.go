package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	vaultPath  string
	outputPath string
	dryRun     bool
	stdout     io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVaultPath sets the vault root directory to read from.
func WithVaultPath(path string) Option {
	return func(a *application) {
		a.vaultPath = path
	}
}

// WithOutputPath sets the directory the JSON files and images are written to.
func WithOutputPath(path string) Option {
	return func(a *application) {
		a.outputPath = path
	}
}

// WithDryRun disables all filesystem mutation while keeping every
// validation and reporting step.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithStdout redirects the human-readable run summary.
func WithStdout(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}
