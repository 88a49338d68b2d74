package fs_test

import (
	"os/exec"
	"strings"
	"testing"
)

// configureGitIdentity injects a commit identity through the
// environment so commits work in bare CI environments without global
// git config. It must run before the first commit, which happens as
// early as Initialize (the .gitignore commit).
func configureGitIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

func gitLog(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--oneline")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git log failed: %v\n%s", err, out)
	}
	return strings.TrimSpace(string(out))
}
