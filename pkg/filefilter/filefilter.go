// Package filefilter computes the set of files a hook should analyze
// for a given run, deciding between a git-diff-scoped incremental scan
// and a full project scan (spec.md §4.1).
package filefilter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/crackerjack-ci/crackerjack/pkg/gitutil"
	"github.com/crackerjack-ci/crackerjack/pkg/hook"
	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("filefilter")

// Scope selects how files_for_scan computes its file set.
type Scope string

const (
	ScopeIncremental Scope = "incremental"
	ScopeFull        Scope = "full"
	ScopeAuto        Scope = "auto"
)

// FileSet is an ordered, deduplicated set of project-relative paths.
type FileSet []string

// FileFilter computes scan file sets rooted at a project directory,
// excluding paths matched by IgnorePatterns (doublestar globs, e.g.
// "vendor/**", "**/*.pb.go").
type FileFilter struct {
	Root           string
	IgnorePatterns []string
	Branch         string // default base branch used by DefaultBaseRef
}

// New constructs a FileFilter rooted at root.
func New(root string, ignorePatterns []string, branch string) *FileFilter {
	return &FileFilter{Root: root, IgnorePatterns: ignorePatterns, Branch: branch}
}

// FilesForScan implements spec.md §4.1's files_for_scan: in ScopeAuto
// it diffs against the resolved base ref and upgrades to a full scan
// once the diff set reaches threshold entries, or on any git failure.
func (f *FileFilter) FilesForScan(scope Scope, threshold int, baseRef string) (FileSet, error) {
	switch scope {
	case ScopeFull:
		return f.fullScan()
	case ScopeIncremental:
		return f.incrementalScan(baseRef)
	case ScopeAuto:
		return f.autoScan(threshold, baseRef)
	default:
		return f.fullScan()
	}
}

func (f *FileFilter) autoScan(threshold int, baseRef string) (FileSet, error) {
	diffSet, err := f.incrementalScan(baseRef)
	if err != nil {
		log.Printf("incremental scan failed (%v), downgrading to full scan", err)
		return f.fullScan()
	}
	if threshold > 0 && len(diffSet) >= threshold {
		log.Printf("diff set of %d files meets threshold %d, upgrading to full scan", len(diffSet), threshold)
		return f.fullScan()
	}
	return diffSet, nil
}

func (f *FileFilter) incrementalScan(baseRef string) (FileSet, error) {
	if !gitutil.IsRepo(f.Root) {
		return nil, errNotARepo
	}

	resolvedBase := baseRef
	if resolvedBase == "" {
		base, err := gitutil.DefaultBaseRef(f.Root, f.Branch)
		if err != nil {
			return nil, err
		}
		resolvedBase = base
	}

	names, err := gitutil.DiffNames(f.Root, resolvedBase)
	if err != nil {
		return nil, err
	}

	return f.filterExistingAndIgnored(names), nil
}

func (f *FileFilter) fullScan() (FileSet, error) {
	if gitutil.IsRepo(f.Root) {
		names, err := gitutil.TrackedFiles(f.Root)
		if err == nil {
			return f.filterExistingAndIgnored(names), nil
		}
		log.Printf("git ls-files failed (%v), walking filesystem instead", err)
	}
	return f.walkFilesystem()
}

func (f *FileFilter) walkFilesystem() (FileSet, error) {
	var out []string
	err := filepath.WalkDir(f.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(f.Root, path)
		if relErr != nil {
			return nil
		}
		if f.isIgnored(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (f *FileFilter) filterExistingAndIgnored(names []string) FileSet {
	out := make(FileSet, 0, len(names))
	for _, name := range names {
		if f.isIgnored(name) {
			continue
		}
		full := filepath.Join(f.Root, name)
		if info, err := os.Stat(full); err != nil || info.IsDir() {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (f *FileFilter) isIgnored(relPath string) bool {
	for _, pattern := range f.IgnorePatterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// FilterByHook implements spec.md §4.1's filter_by_hook: intersects
// files with the hook's file_extensions, with the empty-set and
// accepts_file_paths=false special cases.
func FilterByHook(files FileSet, def hook.Definition) FileSet {
	if !def.AcceptsFilePaths {
		return nil
	}
	if len(def.FileExtensions) == 0 {
		return files
	}

	exts := make(map[string]struct{}, len(def.FileExtensions))
	for _, e := range def.FileExtensions {
		exts[strings.ToLower(e)] = struct{}{}
	}

	out := make(FileSet, 0, len(files))
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		if _, ok := exts[ext]; ok {
			out = append(out, file)
		}
	}
	return out
}

type notARepoError struct{}

func (notARepoError) Error() string { return "filefilter: root is not a git repository" }

var errNotARepo = notARepoError{}
