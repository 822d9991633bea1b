package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/export"
	"github.com/vk/tplc/internal/instantiate"
)

// Run loads the configured template files, compiles them and writes the
// result. Nothing is written when any step fails.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "paths", a.config.TemplatePaths)

	templates, err := a.loader.Load(ctx, a.config.TemplatePaths...)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	if len(templates) == 0 {
		a.logger.Warn("No templates found, output will be empty.", "paths", a.config.TemplatePaths)
	}
	a.logger.Info("Templates loaded.", "count", len(templates))

	compiled, err := a.compiler.Compile(ctx, templates)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	if a.config.Verify {
		var errs []error
		for _, c := range compiled {
			if err := instantiate.Verify(c); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("verification failed: %w", errors.Join(errs...))
		}
		a.logger.Info("Variable indexes verified.", "count", len(compiled))
	}

	if err := export.Write(a.outW, a.format, compiled); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "format", a.format)
	return nil
}
