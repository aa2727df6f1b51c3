package ninja

import (
	"errors"
	"io"
	"path"
	"strings"

	"github.com/shibukawa/leafbuild/interp"
)

// ErrNoTargets reports a generate call with nothing to build.
var ErrNoTargets = errors.New("no targets to generate")

// BuildFile is everything generation needs: the evaluated targets plus the
// resolved tools. Zero tool fields fall back to the conventional names so
// a BuildFile constructed by hand stays usable.
type BuildFile struct {
	Project  string
	CC       string
	CXX      string
	AR       string
	CFlags   []string
	CXXFlags []string
	LDFlags  []string
	Targets  []*interp.Target
}

// Generate writes the ninja file. Targets come out in declaration order
// and sources in listed order, so the same build file always produces the
// same bytes.
func (b *BuildFile) Generate(w io.Writer) error {
	if len(b.Targets) == 0 {
		return ErrNoTargets
	}

	cc := fallback(b.CC, "cc")
	cxx := fallback(b.CXX, "c++")
	ar := fallback(b.AR, "ar")

	var hasC, hasCXX, hasLib, linkC, linkCXX bool
	for _, t := range b.Targets {
		mixed := false
		for _, src := range t.Sources {
			if isCXXSource(src) {
				hasCXX = true
				mixed = true
			} else {
				hasC = true
			}
		}
		switch t.Kind {
		case interp.ExecutableTarget:
			if mixed {
				linkCXX = true
			} else {
				linkC = true
			}
		case interp.LibraryTarget:
			hasLib = true
		}
	}

	n := NewWriter(w)
	n.Comment("Generated by leafbuild, do not edit.")
	if b.Project != "" {
		n.Comment("Project: " + b.Project)
	}
	n.Newline()
	n.Variable("ninja_required_version", "1.7")
	n.Newline()
	n.Variable("cc", cc)
	n.Variable("cxx", cxx)
	n.Variable("ar", ar)
	n.Variable("cflags", strings.Join(b.CFlags, " "))
	n.Variable("cxxflags", strings.Join(b.CXXFlags, " "))
	n.Variable("ldflags", strings.Join(b.LDFlags, " "))
	n.Newline()

	if hasC {
		n.Rule(Rule{
			Name:        "cc_compile",
			Command:     "$cc $cflags -MD -MQ $out -MF $out.d -c $in -o $out",
			Description: "CC $out",
			Depfile:     "$out.d",
			Deps:        "gcc",
		})
		n.Newline()
	}
	if hasCXX {
		n.Rule(Rule{
			Name:        "cxx_compile",
			Command:     "$cxx $cxxflags -MD -MQ $out -MF $out.d -c $in -o $out",
			Description: "CXX $out",
			Depfile:     "$out.d",
			Deps:        "gcc",
		})
		n.Newline()
	}
	if linkC {
		n.Rule(Rule{
			Name:        "cc_link",
			Command:     "$cc $in -o $out $ldflags",
			Description: "LINK $out",
		})
		n.Newline()
	}
	if linkCXX {
		n.Rule(Rule{
			Name:        "cxx_link",
			Command:     "$cxx $in -o $out $ldflags",
			Description: "LINK $out",
		})
		n.Newline()
	}
	if hasLib {
		n.Rule(Rule{
			Name:        "archive",
			Command:     "rm -f $out && $ar rcs $out $in",
			Description: "AR $out",
		})
		n.Newline()
	}

	outputs := make([]string, 0, len(b.Targets))
	for _, t := range b.Targets {
		objs := make([]string, 0, len(t.Sources))
		mixed := false
		for _, src := range t.Sources {
			obj := objectPath(t, src)
			rule := "cc_compile"
			if isCXXSource(src) {
				rule = "cxx_compile"
				mixed = true
			}
			n.Build([]string{obj}, rule, []string{src})
			objs = append(objs, obj)
		}
		out := outputName(t)
		switch t.Kind {
		case interp.LibraryTarget:
			n.Build([]string{out}, "archive", objs)
		default:
			rule := "cc_link"
			if mixed {
				rule = "cxx_link"
			}
			n.Build([]string{out}, rule, objs)
		}
		n.Newline()
		outputs = append(outputs, out)
	}

	n.Phony("all", outputs)
	n.Default([]string{"all"})

	return n.Err()
}

// objectPath places objects in a per-target directory so two targets can
// compile the same source with different flags. Directory separators in
// the source path flatten to `_`.
func objectPath(t *interp.Target, src string) string {
	flat := strings.ReplaceAll(src, "/", "_")
	return path.Join(t.Name+".p", flat+".o")
}

func outputName(t *interp.Target) string {
	if t.Kind == interp.LibraryTarget {
		return "lib" + t.Name + ".a"
	}
	return t.Name
}

func isCXXSource(src string) bool {
	switch path.Ext(src) {
	case ".cpp", ".cc", ".cxx", ".c++":
		return true
	}
	return false
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
