package parser

import (
	"fmt"
	"strings"

	"printts/internal/shared/util"
)

const (
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangJavaScript = "javascript"
)

// FallbackLanguage parses files whose extension is not registered. TSX
// accepts both type annotations and JSX, so it covers the widest range of
// TS-family sources.
const FallbackLanguage = LangTSX

type LanguageSpec struct {
	Name       string
	Extensions []string
	Enabled    bool
}

func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangTypeScript: {
			Name:       LangTypeScript,
			Extensions: []string{".ts", ".mts", ".cts"},
			Enabled:    true,
		},
		LangTSX: {
			Name:       LangTSX,
			Extensions: []string{".tsx"},
			Enabled:    true,
		},
		LangJavaScript: {
			Name:       LangJavaScript,
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			Enabled:    true,
		},
	}
}

// ValidateLanguageRegistry rejects unknown languages and extensions claimed
// by more than one language.
func ValidateLanguageRegistry(registry map[string]LanguageSpec) error {
	known := DefaultLanguageRegistry()
	owners := make(map[string]string)

	for _, name := range util.SortedStringKeys(registry) {
		spec := registry[name]
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown language %q", name)
		}
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("language %q: extension %q must start with '.'", name, ext)
			}
			if owner, dup := owners[ext]; dup {
				return fmt.Errorf("extension %q is claimed by both %q and %q", ext, owner, name)
			}
			owners[ext] = name
		}
	}
	return nil
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for id, spec := range in {
		copySpec := spec
		copySpec.Extensions = append([]string(nil), spec.Extensions...)
		out[id] = copySpec
	}
	return out
}
