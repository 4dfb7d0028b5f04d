package module

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skepa-lang/skepa/internal/ast"
	"github.com/skepa-lang/skepa/internal/parser"
	"github.com/skepa-lang/skepa/internal/report"
)

// Load runs the breadth-first discovery algorithm of spec.md §4.3 starting
// from entryPath, parsing every reachable project module exactly once and
// building each module's local symbol table. Built-in package roots are
// recognized and skipped: they are resolved lazily by sema against
// internal/builtins, never loaded as graph nodes.
func Load(entryPath string) (*Graph, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, err
	}

	root := filepath.Dir(absEntry)
	entryID := idFromPath(root, absEntry)

	g := &Graph{Modules: map[string]*Module{}, Entry: entryID}
	folders := map[string]*Module{}

	queue := []string{absEntry}
	queuedFiles := map[string]bool{absEntry: true}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		id := idFromPath(root, path)
		if _, ok := g.Modules[id]; ok {
			continue
		}

		mod, err := loadFileModule(root, path, id)
		if err != nil {
			return nil, err
		}
		g.Modules[id] = mod
		registerInFolder(g, folders, root, path, id)

		for _, decl := range mod.File.Decls {
			var (
				modPath string
				span    *report.Span
				isFrom  bool
			)

			switch d := decl.(type) {
			case *ast.ImportDecl:
				modPath, span, isFrom = d.ModulePath, d.Span, d.IsFrom
			case *ast.ExportDecl:
				if d.FromModule == "" {
					continue
				}
				modPath, span, isFrom = d.FromModule, d.Span, true
			default:
				continue
			}

			first := strings.SplitN(modPath, ".", 2)[0]
			if IsBuiltinRoot(first) {
				if _, isExport := decl.(*ast.ExportDecl); isExport {
					report.Raise("E-MOD-NOT-FOUND", span, "built-in package `%s` cannot be re-exported", first)
				}
				continue
			}

			targets, err := resolveModuleTarget(root, g, folders, modPath, isFrom, span)
			if err != nil {
				return nil, err
			}
			for _, t := range targets {
				if !queuedFiles[t] {
					queuedFiles[t] = true
					queue = append(queue, t)
				}
			}
		}
	}

	return g, nil
}

// idFromPath derives the canonical dot-separated module id of a `.sk` file
// relative to root, per spec.md §4.3.
func idFromPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(rel, ".sk")
	rel = filepath.ToSlash(rel)
	return strings.ReplaceAll(rel, "/", ".")
}

// resolveModuleTarget resolves a dotted module path (from an import or a
// re-export `from` clause) to the file(s) that must be parsed: a single
// file for a file-module target, or every `.sk` file beneath a directory
// for a folder-module target.
func resolveModuleTarget(root string, g *Graph, folders map[string]*Module, modPath string, isFrom bool, span *report.Span) ([]string, error) {
	relPath := strings.ReplaceAll(modPath, ".", string(filepath.Separator))
	filePath := filepath.Join(root, relPath+".sk")
	dirPath := filepath.Join(root, relPath)

	fileExists := fileIsRegular(filePath)
	dirExists := dirHasSkepaFiles(dirPath)

	if fileExists && dirExists {
		report.Raise("E-MOD-AMBIG", span, "import path `%s` matches both a file and a folder module", modPath)
	}
	if !fileExists && !dirExists {
		report.Raise("E-MOD-NOT-FOUND", span, "no module found for import path `%s`", modPath)
	}

	if isFrom && dirExists {
		report.Raise("E-MOD-AMBIG", span, "`from %s import ...` requires a file module, but `%s` is a folder", modPath, modPath)
	}

	if fileExists {
		return []string{filePath}, nil
	}

	// Folder import: load every .sk file beneath dirPath recursively, and
	// register a synthetic folder module whose own export namespace is the
	// union of its direct file children only (spec.md §9 open question,
	// resolved strictly: never reach transitive sub-namespaces).
	folderID := idFromPath(root, dirPath)
	if _, ok := folders[folderID]; !ok {
		folders[folderID] = &Module{ID: folderID, Kind: KindFolder, Path: dirPath}
		g.Modules[folderID] = folders[folderID]
	}

	var files []string
	err := filepath.Walk(dirPath, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(p, ".sk") {
			return nil
		}
		files = append(files, p)
		if filepath.Dir(p) == dirPath {
			folders[folderID].children = append(folders[folderID].children, idFromPath(root, p))
		}
		return nil
	})
	if err != nil {
		report.Raise("E-MOD-NOT-FOUND", span, "error reading folder module `%s`: %s", modPath, err)
	}

	sort.Strings(files)
	sort.Strings(folders[folderID].children)
	return files, nil
}

func fileIsRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func dirHasSkepaFiles(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return false
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sk") {
			return true
		}
	}
	// A folder containing only subdirectories with .sk files still counts,
	// per spec.md §4.3 ("containing any .sk files, loaded recursively").
	for _, e := range entries {
		if e.IsDir() {
			if dirHasSkepaFiles(filepath.Join(path, e.Name())) {
				return true
			}
		}
	}
	return false
}

// registerInFolder adds a newly loaded file module as a direct child of its
// parent folder module, if a folder module for that directory exists or is
// later discovered (folders discovered after their children's files are
// queued are patched up by resolveModuleTarget via its own Walk).
func registerInFolder(g *Graph, folders map[string]*Module, root, path, id string) {
	dir := filepath.Dir(path)
	folderID := idFromPath(root, dir)
	if fm, ok := folders[folderID]; ok {
		for _, c := range fm.children {
			if c == id {
				return
			}
		}
		fm.children = append(fm.children, id)
	}
}

// loadFileModule parses a single source file and builds its local symbol
// table.
func loadFileModule(root, path, id string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree := parser.ParseFile(path, bufio.NewReader(f))

	mod := &Module{ID: id, Kind: KindFile, Path: path, File: tree}
	buildLocalSymbolTable(mod)
	for _, decl := range tree.Decls {
		if ed, ok := decl.(*ast.ExportDecl); ok {
			mod.RawExports = append(mod.RawExports, ed)
		}
	}
	return mod, nil
}
