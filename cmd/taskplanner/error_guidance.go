package main

import (
	"errors"
	"fmt"
	"net"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/issues"
)

// formatCLIError renders an error plus hint lines that point at the usual
// causes. The first line is always the error itself.
func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var missingErr *config.MissingError
	if errors.As(err, &missingErr) {
		switch missingErr.Key {
		case "repo":
			lines = append(lines,
				"hint: set the backing repository with: taskplanner config set repo owner/name",
				"hint: or export TASKPLANNER_REPO=owner/name.")
		case "token":
			lines = append(lines,
				"hint: the rest transport needs a token; export GITHUB_TOKEN or run: taskplanner config set token <token>",
				"hint: or switch back to the gh transport with: taskplanner config set transport cli.")
		}
		return uniqueLines(lines)
	}

	var notFoundErr *issues.NotFoundError
	if errors.As(err, &notFoundErr) {
		lines = append(lines, fmt.Sprintf("hint: list known %ss with: taskplanner %s", notFoundErr.Resource, listHintCommand(notFoundErr.Resource)))
		return uniqueLines(lines)
	}

	var writeErr *issues.RemoteWriteError
	if errors.As(err, &writeErr) {
		switch {
		case writeErr.Status == 401 || writeErr.Status == 403:
			lines = append(lines,
				"hint: verify GITHUB_TOKEN has access to the configured repository.",
				"hint: for the cli transport, check: gh auth status.")
		case writeErr.Status == 422:
			lines = append(lines, "hint: the tracker rejected the payload; check that assignee and sprint exist in the repository.")
		case writeErr.Status >= 500:
			lines = append(lines, "hint: the tracker reported an internal error; retry shortly.")
		}
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: could not reach the tracker; check network connectivity.",
			"hint: verify api_url with: taskplanner config get api_url.")
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func listHintCommand(resource string) string {
	if resource == "milestone" {
		return "sprint list"
	}
	return "list --all"
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
