package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shibukawa/leafbuild"
	"github.com/shibukawa/leafbuild/diagnostics"
	"github.com/shibukawa/leafbuild/syntax"
)

// loadProjectConfig loads the configuration file for a project directory.
// Relative config paths are resolved against the project directory, and a
// missing file only fails when the path was set explicitly.
func loadProjectConfig(ctx *Context, dir string) (*leafbuild.Config, error) {
	configPath := ctx.Config
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(dir, configPath)
	}

	if ctx.Config != defaultConfigName {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", leafbuild.ErrConfigFileNotFound, configPath)
		}
	}

	config, err := leafbuild.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// applyColorMode translates the configured color mode into the global
// color switch. "auto" keeps the library's terminal detection.
func applyColorMode(config *leafbuild.Config) {
	switch {
	case config.Output.CI || config.Output.Color == "never":
		color.NoColor = true
	case config.Output.Color == "always":
		color.NoColor = false
	}
}

// renderDiagnostics writes source-annotated diagnostic frames, capped at
// the configured maximum.
func renderDiagnostics(out io.Writer, config *leafbuild.Config, name, source string, diags []syntax.Diagnostic) {
	file := diagnostics.NewSourceFile(name, source)
	renderer := diagnostics.NewRenderer(out)

	shown := diags
	if max := config.Evaluation.MaxDiagnostics; max > 0 && len(shown) > max {
		shown = shown[:max]
	}

	renderer.RenderAll(file, diagnostics.SeverityError, shown)

	if len(diags) > len(shown) {
		fmt.Fprintf(out, "\n%d more error(s) not shown\n", len(diags)-len(shown))
	}
}
