package driver

import (
	"context"
	"time"

	"muscript/internal/buildpipeline"
	"muscript/internal/caseins"
	"muscript/internal/compiler"
	"muscript/internal/diag"
	"muscript/internal/project"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

// CompileRequest describes one package compilation.
type CompileRequest struct {
	Manifest *project.Manifest
	// Classes to compile; empty means every scanned class.
	Classes []string
	// Progress receives per-class events; nil means no reporting.
	Progress buildpipeline.ProgressSink
	// Cache records per-class outcomes; nil disables caching.
	Cache          *DiskCache
	MaxDiagnostics int
}

// CompileResult is the outcome of Compile. Bag and FileSet are always
// populated, even when the returned error is compiler.ErrCompileFailed.
type CompileResult struct {
	Package  *compiler.Package
	Compiler *compiler.Compiler
	Input    *project.PackageInput
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Classes  []string
	Timings  buildpipeline.Timings
}

// Compile loads the package sources in parallel and compiles every
// requested class, reporting progress per class. Cancellation is checked
// between classes; a cancelled compile returns ctx.Err with the partial
// result.
func Compile(ctx context.Context, req *CompileRequest) (*CompileResult, error) {
	fileSet := source.NewFileSet()
	arena := token.NewArena()
	bag := diag.NewBag(req.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	input := project.NewPackageInput(fileSet, arena, req.Manifest, rep, maxErrors(req.MaxDiagnostics))
	res := &CompileResult{Input: input, FileSet: fileSet, Bag: bag}
	if err := input.Scan(); err != nil {
		return res, err
	}

	classes := req.Classes
	if len(classes) == 0 {
		classes = input.Classes()
	}
	res.Classes = classes

	progress := req.Progress
	if progress == nil {
		progress = buildpipeline.NopSink{}
	}

	if err := preloadSources(ctx, input, classes, progress, &res.Timings); err != nil {
		return res, err
	}

	comp := compiler.New(arena, input, bag)
	res.Compiler = comp
	pkg := &compiler.Package{Classes: make(map[types.ClassID]*compiler.CompiledClass)}
	res.Package = pkg

	for _, name := range classes {
		progress.OnEvent(buildpipeline.Event{Class: name, Stage: buildpipeline.StageAnalyze, Status: buildpipeline.StatusQueued})
	}

	analyzeStart := time.Now()
	for _, name := range classes {
		if err := ctx.Err(); err != nil {
			res.Timings.Set(buildpipeline.StageAnalyze, time.Since(analyzeStart))
			return res, err
		}
		classStart := time.Now()
		progress.OnEvent(buildpipeline.Event{Class: name, Stage: buildpipeline.StageAnalyze, Status: buildpipeline.StatusWorking})

		before := bag.Len()
		id, ok := comp.FindClass(caseins.Fold(name))
		if !ok {
			diag.Error(rep, diag.SemaMissingClass, source.Span{}, "cannot find class `"+name+"`").Emit()
			progress.OnEvent(buildpipeline.Event{Class: name, Stage: buildpipeline.StageAnalyze, Status: buildpipeline.StatusError, Elapsed: time.Since(classStart)})
			continue
		}
		pkg.Classes[id] = comp.CompileClass(id)

		errs, warns := tally(bag, before)
		status := buildpipeline.StatusDone
		if errs > 0 {
			status = buildpipeline.StatusError
		}
		progress.OnEvent(buildpipeline.Event{Class: name, Stage: buildpipeline.StageAnalyze, Status: status, Elapsed: time.Since(classStart)})
		recordOutcome(req.Cache, input, name, errs, warns)
	}
	res.Timings.Set(buildpipeline.StageAnalyze, time.Since(analyzeStart))

	if bag.HasErrors() {
		return res, compiler.ErrCompileFailed
	}
	return res, nil
}

// preloadSources reads every file of the requested classes concurrently
// and hands the bytes to the input, so class resolution never blocks on
// the disk.
func preloadSources(ctx context.Context, input *project.PackageInput, classes []string, progress buildpipeline.ProgressSink, timings *buildpipeline.Timings) error {
	loadStart := time.Now()
	progress.OnEvent(buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})

	var paths []string
	for _, name := range classes {
		paths = append(paths, input.ClassFiles(caseins.Fold(name))...)
	}
	files, err := LoadFiles(ctx, paths)
	if err != nil {
		progress.OnEvent(buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: err})
		return err
	}
	for _, f := range files {
		input.Preload(f.Path, f.Content)
	}

	timings.Set(buildpipeline.StageLoad, time.Since(loadStart))
	progress.OnEvent(buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusDone, Elapsed: time.Since(loadStart)})
	return nil
}

// recordOutcome stores the class result keyed by its aggregate content
// hash. Failures to write the cache are ignored: it is an accelerator,
// not a correctness dependency.
func recordOutcome(cache *DiskCache, input *project.PackageInput, name string, errs, warns uint32) {
	if cache == nil {
		return
	}
	paths := input.ClassFiles(caseins.Fold(name))
	if len(paths) == 0 {
		return
	}
	hashes := make([]Digest, 0, len(paths))
	for _, path := range paths {
		file, ok := input.FS.GetByPath(path)
		if !ok {
			return
		}
		hashes = append(hashes, Digest(file.Hash))
	}
	key := combineDigests(hashes)
	_ = cache.Put(key, &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Class:       name,
		FilePaths:   paths,
		ContentHash: key,
		Errors:      errs,
		Warnings:    warns,
	})
}

// tally counts error and warning diagnostics appended after start.
func tally(bag *diag.Bag, start int) (errs, warns uint32) {
	items := bag.Items()
	for i := start; i < len(items); i++ {
		switch {
		case items[i].Severity >= diag.SevError:
			errs++
		case items[i].Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func maxErrors(maxDiagnostics int) uint {
	if maxDiagnostics <= 0 {
		return 0
	}
	return uint(maxDiagnostics)
}
