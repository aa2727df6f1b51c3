// Package toolchain locates the host C and C++ compilers and the
// archiver, honoring the usual CC, CXX and AR environment overrides.
package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// ErrNoCompiler reports that neither a C nor a C++ compiler was found.
var ErrNoCompiler = errors.New("no usable compiler found")

// Vendor identifies a compiler family. Flag spelling differs between
// families, so downstream cares about this more than the exact binary.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorGCC
	VendorClang
)

func (v Vendor) String() string {
	switch v {
	case VendorGCC:
		return "gcc"
	case VendorClang:
		return "clang"
	default:
		return "unknown"
	}
}

// Compiler is one resolved compiler binary.
type Compiler struct {
	// Command is the name that was looked up, Path its resolution.
	Command string
	Path    string
	Vendor  Vendor
	Version string
}

// String renders like "gcc 13.2.0 (/usr/bin/cc)" for status output.
func (c *Compiler) String() string {
	parts := []string{c.Vendor.String()}
	if c.Version != "" {
		parts = append(parts, c.Version)
	}
	return strings.Join(parts, " ") + " (" + c.Path + ")"
}

// Toolchain is the discovered tool set. Either compiler may be nil when
// the host lacks it; Discover fails only when both are missing.
type Toolchain struct {
	C   *Compiler
	CXX *Compiler
	AR  string
}

// For returns the compiler for a project language name, nil when that
// language has no compiler here.
func (tc *Toolchain) For(lang string) *Compiler {
	switch strings.ToLower(lang) {
	case "c":
		return tc.C
	case "cpp", "c++", "cxx":
		return tc.CXX
	default:
		return nil
	}
}

var (
	cCandidates   = []string{"cc", "gcc", "clang"}
	cxxCandidates = []string{"c++", "g++", "clang++"}
)

// Overrides pins specific commands instead of searching PATH. Empty
// fields fall back to the CC, CXX and AR environment variables before
// the candidate search.
type Overrides struct {
	CC  string
	CXX string
	AR  string
}

// Discover probes the host for compilers and the archiver. Overrides and
// the CC, CXX and AR environment variables pin commands instead of
// searching; the context bounds the --version probes.
func Discover(ctx context.Context, ov Overrides) (*Toolchain, error) {
	tc := &Toolchain{
		C:   findCompiler(ctx, pinned(ov.CC, "CC"), cCandidates),
		CXX: findCompiler(ctx, pinned(ov.CXX, "CXX"), cxxCandidates),
		AR:  "ar",
	}
	if override := pinned(ov.AR, "AR"); override != "" {
		tc.AR = override
	}
	if path, err := exec.LookPath(tc.AR); err == nil {
		tc.AR = path
	}
	if tc.C == nil && tc.CXX == nil {
		return nil, ErrNoCompiler
	}
	return tc, nil
}

func pinned(override, envName string) string {
	if override != "" {
		return override
	}
	return os.Getenv(envName)
}

func findCompiler(ctx context.Context, override string, candidates []string) *Compiler {
	names := candidates
	if override != "" {
		names = []string{override}
	}
	for _, name := range names {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		c := &Compiler{Command: name, Path: path}
		if out, err := exec.CommandContext(ctx, path, "--version").Output(); err == nil {
			c.Vendor, c.Version = ParseVersion(string(out))
		}
		return c
	}
	return nil
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// ParseVersion extracts the vendor and version number from a compiler's
// --version banner. Unrecognized banners yield VendorUnknown and whatever
// dotted number appears first, possibly "".
func ParseVersion(output string) (Vendor, string) {
	firstLine, _, _ := strings.Cut(output, "\n")
	lower := strings.ToLower(firstLine)

	vendor := VendorUnknown
	switch {
	case strings.Contains(lower, "clang"):
		vendor = VendorClang
	case strings.Contains(lower, "gcc") || strings.Contains(lower, "g++"):
		vendor = VendorGCC
	}
	return vendor, versionPattern.FindString(firstLine)
}
