package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/shibukawa/leafbuild"
	"github.com/shibukawa/leafbuild/ast"
	"github.com/shibukawa/leafbuild/interp"
	"github.com/shibukawa/leafbuild/ninja"
	"github.com/shibukawa/leafbuild/parser"
	"github.com/shibukawa/leafbuild/toolchain"
)

// BuildCmd represents the build command
type BuildCmd struct {
	Dir                 string `help:"Project directory containing the build file" short:"d" default:"."`
	OutputDir           string `help:"Output directory for build.ninja (overrides config)" short:"o"`
	DisableErrorCascade bool   `help:"Stop at the first evaluation error instead of continuing"`
	CI                  bool   `help:"Plain machine-friendly output"`
}

// Run executes the build command
func (cmd *BuildCmd) Run(ctx *Context) error {
	config, err := loadProjectConfig(ctx, cmd.Dir)
	if err != nil {
		return err
	}

	if cmd.CI {
		config.Output.CI = true
	}

	applyColorMode(config)

	entryPath := filepath.Join(cmd.Dir, config.Entry)

	source, err := os.ReadFile(entryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", leafbuild.ErrBuildFileNotFound, entryPath)
		}

		return fmt.Errorf("failed to read build file: %w", err)
	}

	if ctx.Verbose {
		color.Blue("Parsing %s", entryPath)
	}

	root, parseDiags := parser.Parse(string(source))
	if len(parseDiags) > 0 {
		renderDiagnostics(os.Stderr, config, entryPath, string(source), parseDiags)
		return leafbuild.ErrDiagnosticsReported
	}

	in := interp.New(interp.Options{
		DisableErrorCascade: cmd.DisableErrorCascade || config.Evaluation.DisableErrorCascade,
	})

	runtimeDiags := in.Execute(ast.NewBuildDefinition(root))
	if len(runtimeDiags) > 0 {
		renderDiagnostics(os.Stderr, config, entryPath, string(source), runtimeDiags)
		return leafbuild.ErrDiagnosticsReported
	}

	if len(in.Targets()) == 0 {
		return fmt.Errorf("%w in %s", ninja.ErrNoTargets, entryPath)
	}

	tc, err := toolchain.Discover(context.Background(), toolchain.Overrides{
		CC:  config.Toolchain.CC,
		CXX: config.Toolchain.CXX,
		AR:  config.Toolchain.AR,
	})
	if err != nil {
		return err
	}

	for _, lang := range in.Languages() {
		if tc.For(lang) == nil {
			return fmt.Errorf("%w: %s", ErrNoCompilerForLanguage, lang)
		}
	}

	if ctx.Verbose {
		if tc.C != nil {
			fmt.Printf("C compiler:   %s\n", tc.C)
		}

		if tc.CXX != nil {
			fmt.Printf("C++ compiler: %s\n", tc.CXX)
		}

		fmt.Printf("Archiver:     %s\n", tc.AR)
	}

	outputDir := config.OutputDir
	if cmd.OutputDir != "" {
		outputDir = cmd.OutputDir
	}

	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(cmd.Dir, outputDir)
	}

	err = os.MkdirAll(outputDir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	build := &ninja.BuildFile{
		Project:  in.ProjectName(),
		CC:       compilerCommand(tc.C),
		CXX:      compilerCommand(tc.CXX),
		AR:       tc.AR,
		CFlags:   config.Toolchain.CFlags,
		CXXFlags: config.Toolchain.CXXFlags,
		LDFlags:  config.Toolchain.LDFlags,
		Targets:  in.Targets(),
	}

	ninjaPath := filepath.Join(outputDir, "build.ninja")

	f, err := os.Create(ninjaPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ninjaPath, err)
	}

	err = build.Generate(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to generate %s: %w", ninjaPath, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", ninjaPath, err)
	}

	if !ctx.Quiet {
		color.Green("Generated %s", ninjaPath)
		fmt.Printf("Project %s with %d target(s), run 'ninja -C %s' to build\n",
			in.ProjectName(), len(in.Targets()), outputDir)
	}

	return nil
}

// compilerCommand returns the resolved path of a discovered compiler, or
// empty for a missing one so the generator falls back to its default.
func compilerCommand(c *toolchain.Compiler) string {
	if c == nil {
		return ""
	}

	return c.Path
}
