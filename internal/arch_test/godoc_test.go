package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// docExemptions lists exported symbols, per package, that need no GoDoc
// comment. Keep it small and say why for each entry.
var docExemptions = map[string][]string{
	// Error and Unwrap implement the error interface on typed errors.
	"dag":       {"Error", "Unwrap"},
	"normalize": {"Error", "Unwrap"},
	"taskfile":  {"Error"},
	// Status helpers are named after the severity they print.
	"ui": {"Error", "Warn", "Info"},
	// String implements fmt.Stringer.
	"watch": {"String"},
}

// TestExportedSymbolsHaveGoDoc verifies that exported declarations in
// internal packages carry a doc comment starting with their name. Members
// of a grouped const or var block may rely on the block comment or an
// inline comment instead.
func TestExportedSymbolsHaveGoDoc(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()
			exempt := make(map[string]bool)
			for _, sym := range docExemptions[pkg] {
				exempt[sym] = true
			}
			for _, file := range goFilesIn(t, filepath.Join(internalDirPath(t), pkg)) {
				for _, missing := range undocumented(t, file, exempt) {
					t.Errorf("%s/%s: exported %s has no GoDoc comment", pkg, filepath.Base(file), missing)
				}
			}
		})
	}
}

func undocumented(t *testing.T, file string, exempt map[string]bool) []string {
	t.Helper()
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing %s: %v", file, err)
	}

	var out []string
	report := func(kind, name string, pos token.Pos) {
		if !exempt[name] {
			out = append(out, kind+" "+name+" (line "+strconv.Itoa(fset.Position(pos).Line)+")")
		}
	}

	for _, decl := range node.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if !d.Name.IsExported() || (d.Recv != nil && !exportedReceiver(d.Recv)) {
				continue
			}
			if !startsWith(d.Doc, d.Name.Name) {
				report("func", d.Name.Name, d.Pos())
			}
		case *ast.GenDecl:
			grouped := len(d.Specs) > 1 && d.Doc != nil
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name.IsExported() && !startsWith(s.Doc, s.Name.Name) && !startsWith(d.Doc, s.Name.Name) {
						report("type", s.Name.Name, s.Pos())
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if !name.IsExported() || grouped || s.Comment != nil {
							continue
						}
						if !startsWith(s.Doc, name.Name) && !startsWith(d.Doc, name.Name) {
							report(d.Tok.String(), name.Name, name.Pos())
						}
					}
				}
			}
		}
	}
	return out
}

func startsWith(doc *ast.CommentGroup, name string) bool {
	return doc != nil && strings.HasPrefix(strings.TrimSpace(doc.Text()), name)
}

func exportedReceiver(recv *ast.FieldList) bool {
	if len(recv.List) == 0 {
		return false
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	ident, ok := expr.(*ast.Ident)
	return ok && ident.IsExported()
}
