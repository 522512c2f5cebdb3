package ports

import (
	"io/fs"

	"printts/internal/engine/parser"
)

// FileSystem is the synchronous file-system contract the walk consumes:
// existence and is-directory checks through Stat, and full-text reads.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// ImportParser extracts import declarations from one file's source.
type ImportParser interface {
	ParseFile(path string, content []byte) (*parser.File, error)
	GetLanguage(path string) string
}

// ImportResolver maps (importing file, relative specifier) to a file on
// disk. ok is false when nothing matches.
type ImportResolver interface {
	Resolve(basePath, specifier string) (resolved string, ok bool)
}
