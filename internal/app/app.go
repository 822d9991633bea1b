package app

import (
	"io"
	"log/slog"

	"github.com/vk/tplc/internal/compiler"
	"github.com/vk/tplc/internal/export"
	"github.com/vk/tplc/internal/hcl"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *hcl.Loader
	compiler *compiler.Compiler
	format   export.Format
}

// NewApp is the constructor for the main application. Compiled output goes
// to outW and logs to logW, so the output stays machine-readable. cfg must
// come from NewConfig.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	format, err := export.ParseFormat(cfg.OutputFormat)
	if err != nil {
		// NewConfig has already validated the format.
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   hcl.NewLoader(),
		compiler: compiler.New(compiler.Config{Workers: cfg.Workers}),
		format:   format,
	}
}
