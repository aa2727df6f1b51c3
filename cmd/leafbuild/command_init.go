package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	Name string `arg:"" optional:"" default:"hello" help:"Project name"`
}

// Run executes the init command
func (cmd *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing leafbuild project %s", cmd.Name)
	}

	if fileExists("build.leaf") {
		return fmt.Errorf("%w: build.leaf", ErrProjectExists)
	}

	err := createSampleBuildFile(cmd.Name)
	if err != nil {
		return fmt.Errorf("failed to create build file: %w", err)
	}

	err = createSampleConfig()
	if err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	err = createSampleSource(cmd.Name)
	if err != nil {
		return fmt.Errorf("failed to create sample source: %w", err)
	}

	if !ctx.Quiet {
		color.Green("leafbuild project %s initialized successfully", cmd.Name)
		fmt.Println("\nNext steps:")
		fmt.Println("1. Edit build.leaf to describe your targets")
		fmt.Println("2. Run 'leafbuild build' to generate build.ninja")
		fmt.Println("3. Run 'ninja -C leafbuild-dir' to compile")
	}

	return nil
}

func createSampleBuildFile(name string) error {
	content := fmt.Sprintf(`project('%s', 'c')

let sources = ['src/main.c']

executable('%s', sources)
`, name, name)

	return writeFile("build.leaf", content)
}

func createSampleConfig() error {
	configContent := `# Build description file name
entry: "build.leaf"

# Directory receiving build.ninja
output_dir: "leafbuild-dir"

# Evaluation settings
evaluation:
  disable_error_cascade: false
  max_diagnostics: 20

# Compiler overrides; empty fields use CC/CXX/AR and then PATH search
toolchain:
  cc: ""
  cxx: ""
  cflags: []
  ldflags: []

# Terminal output settings
output:
  color: "auto"  # auto, always, never
`

	return writeFile("leafbuild.yaml", configContent)
}

func createSampleSource(name string) error {
	content := fmt.Sprintf(`#include <stdio.h>

int main(void) {
    printf("Hello from %s!\n");
    return 0;
}
`, name)

	return writeFile(filepath.Join("src", "main.c"), content)
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path, content string) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), 0644)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
