package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"muscript/internal/caseins"
	"muscript/internal/compiler"
	"muscript/internal/diag"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/pp"
	"muscript/internal/source"
	"muscript/internal/token"
)

// classEntry maps one class to its source files. UnrealScript allows a
// class to be split across files sharing the same stem in different
// source directories; Files keeps them in scan order.
type classEntry struct {
	Name  caseins.Name
	Files []string
}

// PackageInput is the on-disk compiler.SourceInput: .uc files found under
// the manifest's source directories, lexed and preprocessed on demand.
// The macro table is shared by every file of the package and is seeded
// from the manifest's [defines].
type PackageInput struct {
	FS       *source.FileSet
	Arena    *token.Arena
	Manifest *Manifest

	rep       diag.Reporter
	maxErrors uint
	macros    *pp.Macros

	classes   map[caseins.Key]*classEntry
	parsed    map[caseins.Key][]compiler.ParsedSource
	preloaded map[string][]byte
	includes  map[string]token.Span
}

// NewPackageInput builds an input over the manifest's directory layout.
// Call Scan before handing it to the compiler.
func NewPackageInput(fileSet *source.FileSet, arena *token.Arena, m *Manifest, rep diag.Reporter, maxErrors uint) *PackageInput {
	in := &PackageInput{
		FS:        fileSet,
		Arena:     arena,
		Manifest:  m,
		rep:       rep,
		maxErrors: maxErrors,
		macros:    pp.NewMacros(),
		classes:   make(map[caseins.Key]*classEntry),
		parsed:    make(map[caseins.Key][]compiler.ParsedSource),
		preloaded: make(map[string][]byte),
		includes:  make(map[string]token.Span),
	}
	in.seedDefines()
	return in
}

// seedDefines lexes each manifest define's value into the arena and
// registers it as a parameterless macro.
func (in *PackageInput) seedDefines() {
	names := make([]string, 0, len(in.Manifest.Defines))
	for name := range in.Manifest.Defines {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := in.Manifest.Defines[name]
		var body []token.ID
		if strings.TrimSpace(value) != "" {
			fid := in.FS.AddVirtual("<define:"+name+">", []byte(value))
			span := lexer.Tokenize(in.FS.Get(fid), in.Arena, lexer.Options{Reporter: in.rep})
			for id := span.Start; id < span.End; id++ {
				tok := in.Arena.Get(id)
				if tok.Kind == token.EOF || tok.Channel == token.ChannelComment {
					continue
				}
				body = append(body, id)
			}
		}
		in.macros.Set(&pp.Define{Name: caseins.NewName(name), Body: body})
	}
}

// Preload stores file content read elsewhere (the parallel loader), so
// ClassSources does not hit the disk again for that path.
func (in *PackageInput) Preload(path string, content []byte) {
	in.preloaded[filepath.Clean(path)] = content
}

// Scan walks the source directories and indexes every .uc file by its
// stem. A directory that does not exist is skipped silently: packages
// commonly declare dirs that only some branches populate.
func (in *PackageInput) Scan() error {
	for _, dir := range in.Manifest.SourceDirs() {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".uc") {
				return nil
			}
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			key := caseins.Fold(stem)
			entry, ok := in.classes[key]
			if !ok {
				entry = &classEntry{Name: caseins.NewName(stem)}
				in.classes[key] = entry
			}
			entry.Files = append(entry.Files, path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	return nil
}

// Classes returns every scanned class name, sorted case-insensitively.
func (in *PackageInput) Classes() []string {
	names := make([]string, 0, len(in.classes))
	for _, entry := range in.classes {
		names = append(names, entry.Name.String())
	}
	sort.Slice(names, func(i, j int) bool {
		return caseins.Fold(names[i]) < caseins.Fold(names[j])
	})
	return names
}

// ClassFiles returns the source files of a class, or nil when unknown.
func (in *PackageInput) ClassFiles(name caseins.Key) []string {
	if entry, ok := in.classes[name]; ok {
		return entry.Files
	}
	return nil
}

// ClassExists implements compiler.SourceInput.
func (in *PackageInput) ClassExists(name caseins.Key) bool {
	_, ok := in.classes[name]
	return ok
}

// ClassSourceIDs implements compiler.SourceInput: it registers the
// class's files in the file set and returns their IDs without lexing or
// parsing anything. A file that cannot be read is skipped here; the read
// error surfaces later when ClassSources actually needs the content.
func (in *PackageInput) ClassSourceIDs(name caseins.Key) ([]source.FileID, bool) {
	entry, ok := in.classes[name]
	if !ok {
		return nil, false
	}
	ids := make([]source.FileID, 0, len(entry.Files))
	for _, path := range entry.Files {
		fid, err := in.addFile(path)
		if err != nil {
			continue
		}
		ids = append(ids, fid)
	}
	return ids, true
}

// ClassSources implements compiler.SourceInput: lex, preprocess, and parse
// every file of the class, memoizing the result.
func (in *PackageInput) ClassSources(name caseins.Key) ([]compiler.ParsedSource, error) {
	if sources, ok := in.parsed[name]; ok {
		return sources, nil
	}
	entry, ok := in.classes[name]
	if !ok {
		return nil, nil
	}

	sources := make([]compiler.ParsedSource, 0, len(entry.Files))
	for _, path := range entry.Files {
		fid, err := in.addFile(path)
		if err != nil {
			return sources, fmt.Errorf("class %s: %w", entry.Name, err)
		}
		span := lexer.Tokenize(in.FS.Get(fid), in.Arena, lexer.Options{Reporter: in.rep})
		ppr := pp.New(in.FS, in.Arena, in.macros, in.rep, in.resolveInclude)
		ids := ppr.Expand(span)
		file, _ := parser.ParseFile(in.Arena, ids, parser.Options{
			Reporter:  in.rep,
			MaxErrors: in.maxErrors,
		})
		sources = append(sources, compiler.ParsedSource{File: fid, CST: file})
	}
	in.parsed[name] = sources
	return sources, nil
}

func (in *PackageInput) addFile(path string) (source.FileID, error) {
	if file, ok := in.FS.GetByPath(path); ok {
		return file.ID, nil
	}
	if content, ok := in.preloaded[filepath.Clean(path)]; ok {
		normalized, flags := source.Normalize(content)
		return in.FS.Add(path, normalized, flags), nil
	}
	return in.FS.Load(path)
}

// resolveInclude locates an `include path in the manifest's include
// directory first, then relative to the package root, and hands back the
// lexed token span. Included files are lexed once.
func (in *PackageInput) resolveInclude(path string) (token.Span, bool) {
	candidates := make([]string, 0, 2)
	if dir := in.Manifest.IncludeDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	candidates = append(candidates, filepath.Join(in.Manifest.Root, path))

	for _, candidate := range candidates {
		clean := filepath.Clean(candidate)
		if span, ok := in.includes[clean]; ok {
			return span, true
		}
		if _, err := os.Stat(clean); err != nil {
			continue
		}
		fid, err := in.addFile(clean)
		if err != nil {
			continue
		}
		span := lexer.Tokenize(in.FS.Get(fid), in.Arena, lexer.Options{Reporter: in.rep})
		in.includes[clean] = span
		return span, true
	}
	return token.Span{}, false
}
