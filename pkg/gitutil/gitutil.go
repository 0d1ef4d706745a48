// Package gitutil wraps the minimal set of git plumbing commands the
// file filter needs to compute a changed-file set, shelling out to
// the git binary rather than linking a git implementation.
package gitutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/crackerjack-ci/crackerjack/pkg/logger"
)

var log = logger.New("gitutil")

const gitTimeout = 10 * time.Second

// IsRepo reports whether root is inside a git working tree.
func IsRepo(root string) bool {
	cmd := exec.Command("git", "-C", root, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// Root returns the top-level directory of the git repository
// containing root.
func Root(root string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", root, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository or git unavailable: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// DiffNames returns the project-relative paths changed between baseRef
// and HEAD, via `git diff --name-only baseRef...HEAD`. Deleted files
// are included in the returned list; callers that need files to exist
// on disk must filter separately.
func DiffNames(root, baseRef string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	spec := baseRef + "...HEAD"
	log.Printf("git diff --name-only %s", spec)
	cmd := exec.CommandContext(ctx, "git", "-C", root, "diff", "--name-only", spec)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff against %s failed: %w", baseRef, err)
	}
	return splitNonEmptyLines(string(out)), nil
}

// DefaultBaseRef resolves a usable three-dot diff base: the merge base
// with the given branch if it exists, otherwise HEAD~1. Returns an
// error if neither resolves (e.g. a repository with a single commit).
func DefaultBaseRef(root, branch string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	if branch != "" {
		cmd := exec.CommandContext(ctx, "git", "-C", root, "rev-parse", "--verify", branch)
		if err := cmd.Run(); err == nil {
			return branch, nil
		}
		log.Printf("base branch %q not resolvable, falling back to HEAD~1", branch)
	}

	cmd := exec.CommandContext(ctx, "git", "-C", root, "rev-parse", "--verify", "HEAD~1")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("no usable diff base (single-commit repository?): %w", err)
	}
	return "HEAD~1", nil
}

// TrackedFiles lists every file git considers part of the working
// tree, used as the "full scan" file set minus ignored paths.
func TrackedFiles(root string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", root, "ls-files")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}
	return splitNonEmptyLines(string(out)), nil
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// IsHexString reports whether s is non-empty and contains only
// hexadecimal characters, as a commit SHA does.
func IsHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
