package autofix

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
)

// MaxDiffLines bounds how many lines a single FixPlan may touch
// across all its changes before it's rejected outright (spec.md
// §4.8.2, "diff-size guard"). A plan this large is more likely a
// fixer runaway than a legitimate fix.
const MaxDiffLines = 50

// validatePlanSize rejects a plan whose combined change span exceeds
// MaxDiffLines.
func validatePlanSize(plan FixPlan) error {
	total := 0
	for _, c := range plan.Changes {
		total += c.LineSpan()
	}
	if total > MaxDiffLines {
		return fmt.Errorf("fix plan for %s touches %d lines, exceeds guard of %d", plan.FilePath, total, MaxDiffLines)
	}
	return nil
}

// validateSyntax parses path as Go source and reports a parse error.
// Non-.go files are not syntax-checked (Fixable plans may touch
// config or doc files the fixer can propose without a Go AST).
func validateSyntax(path string) error {
	if !isGoFile(path) {
		return nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for syntax validation: %w", path, err)
	}
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, path, contents, parser.AllErrors); err != nil {
		return fmt.Errorf("syntax error after applying fix to %s: %w", path, err)
	}
	return nil
}

// validateNoDuplicateDefinitions walks the file's top-level
// declarations and rejects a fix that introduces two functions,
// types, or package-level vars/consts sharing a name — the most
// common failure mode of a fixer that appends a replacement instead
// of editing in place.
func validateNoDuplicateDefinitions(path string) error {
	if !isGoFile(path) {
		return nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for duplicate-definition check: %w", path, err)
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, contents, parser.AllErrors)
	if err != nil {
		return fmt.Errorf("parsing %s for duplicate-definition check: %w", path, err)
	}

	seen := make(map[string]struct{})
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil {
				continue // methods may legitimately share a name across receivers
			}
			if err := markSeen(seen, d.Name.Name, path); err != nil {
				return err
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if err := markSeen(seen, s.Name.Name, path); err != nil {
						return err
					}
				case *ast.ValueSpec:
					for _, name := range s.Names {
						if name.Name == "_" {
							continue
						}
						if err := markSeen(seen, name.Name, path); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

func markSeen(seen map[string]struct{}, name, path string) error {
	if _, ok := seen[name]; ok {
		return fmt.Errorf("fix to %s introduces a duplicate top-level definition of %q", path, name)
	}
	seen[name] = struct{}{}
	return nil
}

func isGoFile(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".go"
}

// backup copies path's current contents so applyFixes can
// restore it if validation fails after the fixer writes its change.
func backup(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backing up %s: %w", path, err)
	}
	return contents, nil
}

// restore writes contents back to path, undoing a fix that failed
// post-apply validation.
func restore(path string, contents []byte) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, contents, mode); err != nil {
		return fmt.Errorf("restoring %s after failed validation: %w", path, err)
	}
	return nil
}
