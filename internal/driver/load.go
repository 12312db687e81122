// Package driver ties the pieces into runnable pipelines: it loads package
// sources in parallel, feeds them through project.PackageInput into the
// compiler, reports progress to a buildpipeline sink, and remembers clean
// runs in a msgpack disk cache so syntax checks can skip unchanged files.
package driver

import (
	"context"
	"crypto/sha256"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// SourceFile is one loaded source file.
type SourceFile struct {
	Path    string
	Content []byte
	Hash    Digest
}

// LoadFiles reads every path concurrently. Results come back sorted by
// path so downstream IDs are deterministic regardless of I/O order.
func LoadFiles(ctx context.Context, paths []string) ([]SourceFile, error) {
	files := make([]SourceFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- paths come from the package scan
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			files[i] = SourceFile{
				Path:    path,
				Content: content,
				Hash:    sha256.Sum256(content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// combineDigests folds per-file hashes into one class-level digest.
// Order matters: files are hashed in the scan order of the class.
func combineDigests(hashes []Digest) Digest {
	h := sha256.New()
	for i := range hashes {
		h.Write(hashes[i][:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
