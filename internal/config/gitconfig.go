package config

import (
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// gitConfigPrefix namespaces ai-commit keys in git config and CLI overrides.
const gitConfigPrefix = "aicommit."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses "aicommit.model openai/gpt-4o" lines into a map.
// The last value wins when a key is repeated.
func parseGitConfigOutput(output string) map[string]any {
	result := make(map[string]any)
	if output == "" {
		return result
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// values may contain spaces
		parts := strings.SplitN(line, " ", 2)
		key := strings.TrimPrefix(parts[0], gitConfigPrefix)
		if key == "" || key == parts[0] {
			continue
		}
		value := ""
		if len(parts) == 2 {
			value = parts[1]
		} else {
			// a bare boolean key in git config means true
			value = "true"
		}

		// git lowercases variable names; ai-commit keys use underscores
		result[strings.ReplaceAll(key, "-", "_")] = value
	}

	return result
}

// loadGitConfig reads aicommit.* values from global or repository git config.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^aicommit\.`}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	return parseGitConfigOutput(output), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	if gitConfigMock != nil {
		return true
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns the working directory when it is inside a repository.
func determineRepoPath() string {
	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}
	return ""
}

// parseCLIConfigOverrides parses --config=aicommit.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Newf("invalid config override: %q, expected format: aicommit.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		if !strings.HasPrefix(fullKey, gitConfigPrefix) {
			return nil, errors.Newf("config override key must start with 'aicommit.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, gitConfigPrefix)
		if key == "" {
			return nil, errors.Newf("empty config key in override: %q", override)
		}
		result[key] = parts[1]
	}

	return result, nil
}
