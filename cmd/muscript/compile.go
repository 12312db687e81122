package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"muscript/internal/buildpipeline"
	"muscript/internal/compiler"
	"muscript/internal/driver"
	"muscript/internal/ir"
	"muscript/internal/project"
)

var (
	compileClasses []string
	compileDumpIR  bool
	compileTimings bool
	compileUI      string
	compileCache   bool
)

func init() {
	compileCmd.Flags().StringArrayVar(&compileClasses, "class", nil, "compile only the named class (repeatable)")
	compileCmd.Flags().BoolVar(&compileDumpIR, "dump-ir", false, "print the IR of every compiled function")
	compileCmd.Flags().BoolVar(&compileTimings, "timings", false, "print stage timings")
	compileCmd.Flags().StringVar(&compileUI, "ui", "auto", "per-class progress view (auto|on|off)")
	compileCmd.Flags().BoolVar(&compileCache, "cache", false, "record per-class outcomes in the disk cache")
}

var compileCmd = &cobra.Command{
	Use:   "compile [dir]",
	Short: "Compile an UnrealScript package",
	Long: `Compiles the classes of a package directory. The package layout comes
from muscript.toml when present; a bare directory of .uc files works too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		manifest, err := loadManifest(dir)
		if err != nil {
			return err
		}

		mode, err := parseProgressMode(compileUI)
		if err != nil {
			return err
		}

		var cache *driver.DiskCache
		if compileCache {
			if cache, err = driver.OpenDiskCache("muscript"); err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
		}

		req := &driver.CompileRequest{
			Manifest:       manifest,
			Classes:        compileClasses,
			Cache:          cache,
			MaxDiagnostics: maxDiagnostics(cmd),
		}

		var res *driver.CompileResult
		if mode.interactive() {
			res, err = runCompileWithUI(context.Background(), "compiling "+manifest.Name, req)
		} else {
			res, err = driver.Compile(context.Background(), req)
		}
		if res != nil {
			printDiagnostics(cmd, res.Bag, res.FileSet)
		}
		if err != nil && !errors.Is(err, compiler.ErrCompileFailed) {
			return err
		}

		if res != nil && compileDumpIR {
			dumpPackageIR(cmd, res)
		}
		if res != nil && compileTimings {
			printTimings(cmd, res.Timings)
		}
		if err != nil {
			return silentFailure(cmd)
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet && res != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %d class(es) of package %s\n",
				len(res.Package.Classes), manifest.Name)
		}
		return nil
	},
}

// loadManifest finds muscript.toml at or above dir, falling back to a
// default manifest over the bare directory.
func loadManifest(dir string) (*project.Manifest, error) {
	path, ok, err := project.FindManifest(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return project.DefaultManifest(dir), nil
	}
	return project.LoadManifest(path)
}

// dumpPackageIR prints every lowered function, classes and functions both
// in deterministic order.
func dumpPackageIR(cmd *cobra.Command, res *driver.CompileResult) {
	env := res.Compiler.Env

	compiled := make([]*compiler.CompiledClass, 0, len(res.Package.Classes))
	for _, class := range res.Package.Classes {
		compiled = append(compiled, class)
	}
	sort.Slice(compiled, func(i, j int) bool {
		return env.ClassName(compiled[i].Class).Key() < env.ClassName(compiled[j].Class).Key()
	})

	out := cmd.OutOrStdout()
	for _, class := range compiled {
		fmt.Fprintf(out, "class %s:\n", env.ClassName(class.Class))
		for _, fid := range class.Functions {
			fn := env.GetFunction(fid)
			if fn.IR == nil {
				continue
			}
			fmt.Fprint(out, ir.Dump(fn.IR, env.Types))
		}
	}
}

func printTimings(cmd *cobra.Command, timings buildpipeline.Timings) {
	out := cmd.ErrOrStderr()
	for _, stage := range []buildpipeline.Stage{
		buildpipeline.StageLoad,
		buildpipeline.StageParse,
		buildpipeline.StagePartition,
		buildpipeline.StageAnalyze,
		buildpipeline.StageArchive,
	} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-10s %s\n", stage, timings.Duration(stage))
		}
	}
}
