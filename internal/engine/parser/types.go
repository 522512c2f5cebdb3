package parser

import (
	"strings"
	"time"
)

// File is the import view of one parsed source file.
type File struct {
	Path            string
	Language        string
	Imports         []Import
	HasSyntaxErrors bool
	ParsedAt        time.Time
}

// Import is one import declaration, in source order.
type Import struct {
	Specifier  string // Literal module specifier without quotes
	TypeOnly   bool   // import type { X } from "..."
	SideEffect bool   // import "./polyfill"
	Location   Location
}

// IsRelative reports whether the specifier is a local path ("./x", "../x", ".").
func (i Import) IsRelative() bool {
	return strings.HasPrefix(i.Specifier, ".")
}

type Location struct {
	File   string
	Line   int
	Column int
}
