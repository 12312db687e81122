package driver

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"muscript/internal/buildpipeline"
	"muscript/internal/diag"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/source"
	"muscript/internal/token"
)

// CheckRequest describes a parallel per-file syntax check.
type CheckRequest struct {
	Paths          []string
	Progress       buildpipeline.ProgressSink
	Cache          *DiskCache
	MaxDiagnostics int
}

// CheckResult is the per-file outcome. Each file was parsed in isolation,
// so diagnostics resolve against the result's own FileSet. Skipped files
// matched a clean cached run and were not re-parsed.
type CheckResult struct {
	Path    string
	Skipped bool
	Items   int
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// CheckFiles parses every path concurrently and reports per-file syntax
// diagnostics. Parsing is per-file isolated (own arena, own file set), so
// the files fan out across cores; the cache skips files whose content
// hash matches a previous clean parse.
func CheckFiles(ctx context.Context, req *CheckRequest) ([]CheckResult, error) {
	results := make([]CheckResult, len(req.Paths))

	progress := req.Progress
	if progress == nil {
		progress = buildpipeline.NopSink{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range req.Paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			progress.OnEvent(buildpipeline.Event{Class: path, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

			res, err := checkOne(path, req.Cache, req.MaxDiagnostics)
			if err != nil {
				progress.OnEvent(buildpipeline.Event{Class: path, Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError, Err: err, Elapsed: time.Since(start)})
				return err
			}
			results[i] = res

			status := buildpipeline.StatusDone
			if res.Bag != nil && res.Bag.HasErrors() {
				status = buildpipeline.StatusError
			}
			progress.OnEvent(buildpipeline.Event{Class: path, Stage: buildpipeline.StageParse, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkOne(path string, cache *DiskCache, maxDiagnostics int) (CheckResult, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{}, err
	}
	key := Digest(sha256.Sum256(content))

	var cached DiskPayload
	if ok, _ := cache.Get(key, &cached); ok && cached.Clean() {
		return CheckResult{Path: path, Skipped: true}, nil
	}

	fileSet := source.NewFileSet()
	arena := token.NewArena()
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	normalized, flags := source.Normalize(content)
	fid := fileSet.Add(path, normalized, flags)
	span := lexer.Tokenize(fileSet.Get(fid), arena, lexer.Options{Reporter: rep})
	ids := make([]token.ID, 0, span.Len())
	for id := span.Start; id < span.End; id++ {
		ids = append(ids, id)
	}
	file, _ := parser.ParseFile(arena, ids, parser.Options{Reporter: rep, MaxErrors: maxErrors(maxDiagnostics)})

	errs, warns := tally(bag, 0)
	if cache != nil {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		_ = cache.Put(key, &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Class:       stem,
			FilePaths:   []string{path},
			ContentHash: key,
			Errors:      errs,
			Warnings:    warns,
		})
	}

	return CheckResult{
		Path:    path,
		Items:   len(file.Items),
		Bag:     bag,
		FileSet: fileSet,
	}, nil
}
