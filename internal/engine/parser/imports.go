package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ImportExtractor collects import declarations from TS/TSX/JS syntax trees.
//
// Only `import_statement` nodes with a literal `source` are recorded. That
// covers `import x from "m"`, `import type { T } from "m"` and side-effect
// `import "m"`, at top level or inside `declare module` blocks. Re-exports,
// `import x = require("m")`, `require()` and dynamic `import()` are not
// import declarations and are skipped.
type ImportExtractor struct{}

func NewImportExtractor() *ImportExtractor { return &ImportExtractor{} }

func (e *ImportExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		ParsedAt: time.Now(),
	}
	if root == nil {
		return file, nil
	}
	file.HasSyntaxErrors = root.HasError()

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement": e.extractImport,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *ImportExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	if hasChildKind(node, "import_require_clause") {
		return true
	}

	source := node.ChildByFieldName("source")
	if source == nil || source.Kind() != "string" {
		return true
	}
	specifier := trimQuoted(ctx.Text(source))
	if specifier == "" {
		return true
	}

	ctx.File.Imports = append(ctx.File.Imports, Import{
		Specifier:  specifier,
		TypeOnly:   hasChildKind(node, "type", "typeof"),
		SideEffect: !hasChildKind(node, "import_clause"),
		Location:   ctx.Location(node),
	})
	return true
}
