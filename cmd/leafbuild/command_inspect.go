package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shibukawa/leafbuild"
	"github.com/shibukawa/leafbuild/parser"
)

// InspectCmd represents the inspect command
type InspectCmd struct {
	File string `arg:"" help:"Build file to inspect"`
}

// Run executes the inspect command
func (cmd *InspectCmd) Run(ctx *Context) error {
	config, err := loadProjectConfig(ctx, filepath.Dir(cmd.File))
	if err != nil {
		return err
	}

	applyColorMode(config)

	source, err := os.ReadFile(cmd.File)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", leafbuild.ErrBuildFileNotFound, cmd.File)
		}

		return fmt.Errorf("failed to read build file: %w", err)
	}

	root, diags := parser.Parse(string(source))
	fmt.Print(root.Dump())

	if len(diags) > 0 {
		fmt.Println()
		renderDiagnostics(os.Stderr, config, cmd.File, string(source), diags)

		return leafbuild.ErrDiagnosticsReported
	}

	return nil
}
