package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit records every invocation and re-executes the test binary as a stand-in
// for git. The helper echoes stdin, prints helperOutput and helperStderr and
// exits with exitCodes[i].
type fakeGit struct {
	calls        [][]string
	helperOutput string
	helperStderr string
	exitCodes    map[int]int
}

func (f *fakeGit) install(t *testing.T) {
	t.Helper()
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })

	execCommand = func(_ context.Context, name string, args ...string) *exec.Cmd {
		idx := len(f.calls)
		f.calls = append(f.calls, append([]string{name}, args...))
		code := f.exitCodes[idx]

		cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--") //nolint:gosec
		cmd.Env = append(os.Environ(),
			"AI_COMMIT_HELPER_PROCESS=1",
			"AI_COMMIT_HELPER_OUTPUT="+f.helperOutput,
			"AI_COMMIT_HELPER_STDERR="+f.helperStderr,
			"AI_COMMIT_HELPER_EXIT="+strconv.Itoa(code),
		)
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("AI_COMMIT_HELPER_PROCESS") != "1" {
		return
	}
	in, _ := io.ReadAll(os.Stdin)
	if len(in) > 0 {
		fmt.Fprintf(os.Stdout, "stdin=%s\n", in)
	}
	fmt.Fprint(os.Stdout, os.Getenv("AI_COMMIT_HELPER_OUTPUT"))
	fmt.Fprint(os.Stderr, os.Getenv("AI_COMMIT_HELPER_STDERR"))
	code, _ := strconv.Atoi(os.Getenv("AI_COMMIT_HELPER_EXIT"))
	os.Exit(code)
}

func newTestService(stdout *bytes.Buffer) *Service {
	svc := NewService()
	svc.SetStdio(strings.NewReader(""), stdout, io.Discard)
	return svc
}

func TestPrepareAllowedCommand(t *testing.T) {
	_, err := prepareAllowedCommand(context.Background(), nil)
	require.Error(t, err)

	_, err = prepareAllowedCommand(context.Background(), []string{"rm", "-rf", "/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported command")

	cmd, err := prepareAllowedCommand(context.Background(), []string{"git", "status"})
	require.NoError(t, err)
	assert.Equal(t, []string{"status"}, cmd.Args[len(cmd.Args)-1:])
}

func TestDiffUsesExactFlags(t *testing.T) {
	fake := &fakeGit{helperOutput: "diff --git a/x b/x\n"}
	fake.install(t)

	out, err := newTestService(&bytes.Buffer{}).Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n", out)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{
		"git", "--no-pager", "diff", "--no-color", "--minimal", "--ignore-all-space",
		"--ignore-blank-lines", "--no-ext-diff", "--no-textconv", "--no-renames",
	}, fake.calls[0])
}

func TestCommitPipesMessage(t *testing.T) {
	fake := &fakeGit{}
	fake.install(t)

	stdout := &bytes.Buffer{}
	require.NoError(t, newTestService(stdout).Commit(context.Background(), "fix: fix bug"))

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{"git", "commit", "-F", "-"}, fake.calls[0])
	assert.Contains(t, stdout.String(), "stdin=fix: fix bug")
}

func TestStageAndCommitOrder(t *testing.T) {
	fake := &fakeGit{}
	fake.install(t)

	require.NoError(t, newTestService(&bytes.Buffer{}).StageAndCommit(context.Background(), "feat: x"))
	require.Len(t, fake.calls, 2)
	assert.Equal(t, []string{"git", "add", "-A"}, fake.calls[0])
	assert.Equal(t, []string{"git", "commit", "-F", "-"}, fake.calls[1])
}

func TestStageAndCommitStopsWhenAddFails(t *testing.T) {
	fake := &fakeGit{exitCodes: map[int]int{0: 128}}
	fake.install(t)

	err := newTestService(&bytes.Buffer{}).StageAndCommit(context.Background(), "feat: x")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 128, exitErr.Code)
	assert.Len(t, fake.calls, 1)
}

func TestCommitExitCodePropagates(t *testing.T) {
	fake := &fakeGit{exitCodes: map[int]int{0: 1}}
	fake.install(t)

	err := newTestService(&bytes.Buffer{}).Commit(context.Background(), "fix: nothing")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "git commit -F -: exit status 1", exitErr.Error())
}

func TestPushCapturesOutput(t *testing.T) {
	fake := &fakeGit{helperOutput: "Everything up-to-date\n"}
	fake.install(t)

	stdout := &bytes.Buffer{}
	out, err := newTestService(stdout).Push(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Everything up-to-date\n", out)
	assert.Empty(t, stdout.String())
	assert.Equal(t, []string{"git", "push"}, fake.calls[0])
}

func TestPushFailureReachesStderr(t *testing.T) {
	fake := &fakeGit{
		helperStderr: "fatal: No configured push destination.\n",
		exitCodes:    map[int]int{0: 128},
	}
	fake.install(t)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	svc := NewService()
	svc.SetStdio(strings.NewReader(""), stdout, stderr)

	_, err := svc.Push(context.Background())
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 128, exitErr.Code)
	assert.Equal(t, "fatal: No configured push destination.\n", stderr.String())
}

func TestDiffKeepsStderrOffTheTerminal(t *testing.T) {
	fake := &fakeGit{helperOutput: "diff --git a/x b/x\n", helperStderr: "warning: noise\n"}
	fake.install(t)

	stderr := &bytes.Buffer{}
	svc := NewService()
	svc.SetStdio(strings.NewReader(""), &bytes.Buffer{}, stderr)

	out, err := svc.Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n", out)
	assert.Empty(t, stderr.String())
}

func TestRunCommandMissingBinary(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })
	execCommand = func(_ context.Context, _ string, args ...string) *exec.Cmd {
		return exec.Command(filepath.Join(t.TempDir(), "no-such-git"), args...)
	}

	_, err := newTestService(&bytes.Buffer{}).RunCommand(context.Background(), []string{"git", "status"}, RunOptions{})
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("HOME", dir)

	cmd := exec.Command("git", "init", "-q", dir)
	require.NoError(t, cmd.Run())
	return dir
}

func TestStageAndCommitRealRepository(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o600))

	svc := newTestService(&bytes.Buffer{})
	svc.SetDir(dir)
	require.NoError(t, svc.StageAndCommit(context.Background(), "docs: add readme"))

	out, err := exec.Command("git", "-C", dir, "log", "-1", "--format=%s").Output()
	require.NoError(t, err)
	assert.Equal(t, "docs: add readme", strings.TrimSpace(string(out)))
}

func TestCommitNothingStagedRealRepository(t *testing.T) {
	dir := initRepo(t)

	svc := newTestService(&bytes.Buffer{})
	svc.SetDir(dir)
	err := svc.Commit(context.Background(), "fix: nothing")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestDiffRealRepository(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o600))

	svc := newTestService(&bytes.Buffer{})
	svc.SetDir(dir)
	require.NoError(t, svc.StageAndCommit(context.Background(), "feat: init"))

	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o600))
	diff, err := svc.Diff(context.Background())
	require.NoError(t, err)
	assert.Contains(t, diff, "+func main() {}")
	assert.NotContains(t, diff, "\x1b[")
}
