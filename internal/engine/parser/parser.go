package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"printts/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*File, error)
}

// Parser maps file extensions to grammars and runs the import extractor.
// A Parser is meant for one walk at a time; its pools may be shared.
type Parser struct {
	loader     *GrammarLoader
	extractor  Extractor
	extensions map[string]string
	pools      map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractor:  NewImportExtractor(),
		extensions: make(map[string]string),
		pools:      make(map[string]*ParserPool),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
	}
	return p
}

// NewDefaultParser builds a Parser over the default TS/TSX/JS registry.
func NewDefaultParser() (*Parser, error) {
	loader, err := NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	return NewParser(loader), nil
}

func (p *Parser) RegisterExtractor(e Extractor) {
	p.extractor = e
}

func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := p.GetLanguage(path)
	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, errors.AddContext(
			errors.AddContext(errors.New(errors.CodeNotSupported, fmt.Sprintf("grammar not loaded: %s", lang)), errors.CtxLanguage, lang),
			errors.CtxPath, path,
		)
	}

	pool := p.poolFor(lang, grammar)
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeParseFailed, "parse failed"),
			errors.CtxPath, path,
		)
	}
	defer tree.Close()

	res, err := p.extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "extraction failed")
	}
	res.Language = lang
	return res, nil
}

// GetLanguage returns the grammar used for path, falling back to TSX for
// unregistered extensions.
func (p *Parser) GetLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := p.extensions[ext]; ok {
		return lang
	}
	return FallbackLanguage
}

func (p *Parser) poolFor(lang string, grammar *sitter.Language) *ParserPool {
	pool, ok := p.pools[lang]
	if !ok {
		pool = NewParserPool(grammar)
		p.pools[lang] = pool
	}
	return pool
}
