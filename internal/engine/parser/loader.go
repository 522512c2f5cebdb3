package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages map[string]*sitter.Language
	registry  map[string]LanguageSpec
}

func NewGrammarLoader() (*GrammarLoader, error) {
	return NewGrammarLoaderWithRegistry(DefaultLanguageRegistry())
}

func NewGrammarLoaderWithRegistry(registry map[string]LanguageSpec) (*GrammarLoader, error) {
	if registry == nil {
		registry = DefaultLanguageRegistry()
	}
	if err := ValidateLanguageRegistry(registry); err != nil {
		return nil, err
	}

	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
		registry:  cloneLanguageRegistry(registry),
	}

	for langID, spec := range gl.registry {
		if !spec.Enabled {
			continue
		}
		switch langID {
		case LangTypeScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case LangTSX:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		case LangJavaScript:
			gl.languages[langID] = sitter.NewLanguage(tree_sitter_javascript.Language())
		default:
			return nil, fmt.Errorf("language %q is enabled but runtime grammar loading is not implemented", langID)
		}
	}

	// Unregistered extensions fall back to TSX, so its grammar is always present.
	if _, ok := gl.languages[FallbackLanguage]; !ok {
		gl.languages[FallbackLanguage] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	}

	return gl, nil
}

func (gl *GrammarLoader) Language(langID string) *sitter.Language {
	return gl.languages[langID]
}

func (gl *GrammarLoader) LanguageRegistry() map[string]LanguageSpec {
	return cloneLanguageRegistry(gl.registry)
}
