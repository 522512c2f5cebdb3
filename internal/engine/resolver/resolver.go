package resolver

import (
	"log/slog"
	"path/filepath"

	"printts/internal/core/ports"
)

// Policy is the ordered candidate list tried for a relative specifier.
// Order is significant: the first existing candidate wins.
type Policy struct {
	Extensions []string
	IndexFiles []string
}

// DefaultPolicy mirrors TypeScript-ecosystem resolution:
// .ts, .tsx, .js, .jsx, then the same order for index files.
func DefaultPolicy() Policy {
	return Policy{
		Extensions: []string{".ts", ".tsx", ".js", ".jsx"},
		IndexFiles: []string{"index.ts", "index.tsx", "index.js", "index.jsx"},
	}
}

type Resolver struct {
	fs     ports.FileSystem
	policy Policy
}

func NewResolver(fs ports.FileSystem, policy Policy) *Resolver {
	return &Resolver{
		fs: fs,
		policy: Policy{
			Extensions: append([]string(nil), policy.Extensions...),
			IndexFiles: append([]string(nil), policy.IndexFiles...),
		},
	}
}

func (r *Resolver) Policy() Policy {
	return Policy{
		Extensions: append([]string(nil), r.policy.Extensions...),
		IndexFiles: append([]string(nil), r.policy.IndexFiles...),
	}
}

// Resolve joins specifier onto the directory of basePath and returns the
// first file among candidate+ext for each extension, then
// candidate/index for each index name when candidate is a directory.
// The specifier is not checked for relativeness here.
func (r *Resolver) Resolve(basePath, specifier string) (string, bool) {
	candidate := filepath.Join(filepath.Dir(basePath), specifier)

	for _, ext := range r.policy.Extensions {
		full := candidate + ext
		if r.isFile(full) {
			slog.Debug("import resolved", "from", basePath, "specifier", specifier, "path", full)
			return full, true
		}
	}

	if r.isDir(candidate) {
		for _, name := range r.policy.IndexFiles {
			full := filepath.Join(candidate, name)
			if r.isFile(full) {
				slog.Debug("import resolved to index file", "from", basePath, "specifier", specifier, "path", full)
				return full, true
			}
		}
	}

	slog.Debug("import not resolved", "from", basePath, "specifier", specifier)
	return "", false
}

// Stat failures of any kind count as "does not exist".
func (r *Resolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *Resolver) isDir(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.IsDir()
}
