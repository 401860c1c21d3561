package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// issueFields is the projection requested from `gh issue list/view`. The tool
// answers in camelCase with uppercase states; normalization smooths that over.
const issueFields = "number,title,body,state,stateReason,labels,assignees,milestone,createdAt,updatedAt,url"

const cliListLimit = 1000

// runnerFunc executes the tracker CLI and returns its stdout. Tests swap it
// out for a canned responder.
type runnerFunc func(ctx context.Context, stdin []byte, args ...string) ([]byte, error)

// CLIStore drives the tracker through its official CLI, so it rides on
// whatever authentication the user already set up there. Reads go through the
// CLI's JSON projection; writes go through its raw API passthrough, which
// answers in the conventional snake_case shape.
type CLIStore struct {
	repo string // "owner/name"
	run  runnerFunc
}

// NewCLIStore creates a store backed by the `gh` binary on PATH.
func NewCLIStore(repo string) *CLIStore {
	return &CLIStore{repo: repo, run: runGH}
}

func runGH(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		return nil, fmt.Errorf("gh %s: %s", strings.Join(args[:min(len(args), 2)], " "), message)
	}
	return stdout.Bytes(), nil
}

func (s *CLIStore) ListIssues(ctx context.Context, spec ListSpec) ([]Issue, error) {
	args := []string{"issue", "list", "--repo", s.repo, "--json", issueFields, "--limit", strconv.Itoa(cliListLimit)}
	if spec.State != "" {
		args = append(args, "--state", spec.State)
	}
	for _, label := range spec.Labels {
		args = append(args, "--label", label)
	}
	if spec.Assignee != "" {
		args = append(args, "--assignee", spec.Assignee)
	}

	out, err := s.run(ctx, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	var raws []RawIssue
	if err := json.Unmarshal(out, &raws); err != nil {
		return nil, fmt.Errorf("list issues: decode: %w", err)
	}

	issues := make([]Issue, 0, len(raws))
	for _, raw := range raws {
		issue := NormalizeIssue(raw)
		// The CLI filters milestones by title only, so filter by number here.
		if !matchesMilestone(issue, spec.Milestone) {
			continue
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func matchesMilestone(issue Issue, filter string) bool {
	switch filter {
	case "":
		return true
	case "none":
		return issue.Milestone == nil
	default:
		return issue.Milestone != nil && strconv.Itoa(issue.Milestone.Number) == filter
	}
}

func (s *CLIStore) GetIssue(ctx context.Context, number int) (Issue, error) {
	out, err := s.run(ctx, nil, "issue", "view", strconv.Itoa(number), "--repo", s.repo, "--json", issueFields)
	if err != nil {
		if isCLINotFound(err) {
			return Issue{}, &NotFoundError{Resource: "task", Number: number}
		}
		return Issue{}, fmt.Errorf("get issue %d: %w", number, err)
	}
	var raw RawIssue
	if err := json.Unmarshal(out, &raw); err != nil {
		return Issue{}, fmt.Errorf("get issue %d: decode: %w", number, err)
	}
	return NormalizeIssue(raw), nil
}

func (s *CLIStore) CreateIssue(ctx context.Context, payload IssuePayload) (Issue, error) {
	raw, err := s.api(ctx, "POST", s.apiPath("issues"), payload)
	if err != nil {
		return Issue{}, writeError("create issue", err)
	}
	var decoded RawIssue
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Issue{}, fmt.Errorf("create issue: decode: %w", err)
	}
	return NormalizeIssue(decoded), nil
}

func (s *CLIStore) UpdateIssue(ctx context.Context, number int, payload IssuePayload) (Issue, error) {
	raw, err := s.api(ctx, "PATCH", s.apiPath("issues", strconv.Itoa(number)), payload)
	if err != nil {
		if isCLINotFound(err) {
			return Issue{}, &NotFoundError{Resource: "task", Number: number}
		}
		return Issue{}, writeError(fmt.Sprintf("update issue %d", number), err)
	}
	var decoded RawIssue
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Issue{}, fmt.Errorf("update issue %d: decode: %w", number, err)
	}
	return NormalizeIssue(decoded), nil
}

func (s *CLIStore) CloseIssue(ctx context.Context, number int, reason string) error {
	args := []string{"issue", "close", strconv.Itoa(number), "--repo", s.repo}
	if flag := closeReasonFlag(reason); flag != "" {
		args = append(args, "--reason", flag)
	}
	if _, err := s.run(ctx, nil, args...); err != nil {
		if isCLINotFound(err) {
			return &NotFoundError{Resource: "task", Number: number}
		}
		return writeError(fmt.Sprintf("close issue %d", number), err)
	}
	return nil
}

// closeReasonFlag maps the machine-form reason to the CLI's flag vocabulary.
func closeReasonFlag(reason string) string {
	switch reason {
	case ReasonNotPlanned:
		return "not planned"
	case ReasonCompleted:
		return "completed"
	default:
		return ""
	}
}

func (s *CLIStore) CreateMilestone(ctx context.Context, payload MilestonePayload) (Milestone, error) {
	raw, err := s.api(ctx, "POST", s.apiPath("milestones"), payload)
	if err != nil {
		return Milestone{}, writeError("create milestone", err)
	}
	var decoded RawMilestone
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Milestone{}, fmt.Errorf("create milestone: decode: %w", err)
	}
	return NormalizeMilestone(decoded), nil
}

func (s *CLIStore) ListMilestones(ctx context.Context, state string) ([]Milestone, error) {
	path := s.apiPath("milestones") + "?per_page=100"
	if state != "" {
		path += "&state=" + state
	}
	out, err := s.run(ctx, nil, "api", "--paginate", path)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}

	// --paginate concatenates one JSON array per page.
	var milestones []Milestone
	decoder := json.NewDecoder(bytes.NewReader(out))
	for {
		var page []RawMilestone
		if err := decoder.Decode(&page); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("list milestones: decode: %w", err)
		}
		for _, raw := range page {
			milestones = append(milestones, NormalizeMilestone(raw))
		}
	}
	return milestones, nil
}

func (s *CLIStore) UpdateMilestone(ctx context.Context, number int, payload MilestonePayload) (Milestone, error) {
	raw, err := s.api(ctx, "PATCH", s.apiPath("milestones", strconv.Itoa(number)), payload)
	if err != nil {
		if isCLINotFound(err) {
			return Milestone{}, &NotFoundError{Resource: "milestone", Number: number}
		}
		return Milestone{}, writeError(fmt.Sprintf("update milestone %d", number), err)
	}
	var decoded RawMilestone
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Milestone{}, fmt.Errorf("update milestone %d: decode: %w", number, err)
	}
	return NormalizeMilestone(decoded), nil
}

func (s *CLIStore) ListLabels(ctx context.Context) ([]Label, error) {
	out, err := s.run(ctx, nil, "label", "list", "--repo", s.repo, "--json", "name,color,description", "--limit", strconv.Itoa(cliListLimit))
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	var labels []Label
	if err := json.Unmarshal(out, &labels); err != nil {
		return nil, fmt.Errorf("list labels: decode: %w", err)
	}
	return labels, nil
}

func (s *CLIStore) CreateLabel(ctx context.Context, label Label) error {
	args := []string{"label", "create", label.Name, "--repo", s.repo, "--color", label.Color}
	if label.Description != "" {
		args = append(args, "--description", label.Description)
	}
	if _, err := s.run(ctx, nil, args...); err != nil {
		return writeError(fmt.Sprintf("create label %s", label.Name), err)
	}
	return nil
}

// api sends a JSON body through the CLI's raw API passthrough and returns the
// raw response.
func (s *CLIStore) api(ctx context.Context, method, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, payload, "api", "--method", method, path, "--input", "-")
}

func (s *CLIStore) apiPath(parts ...string) string {
	return "repos/" + s.repo + "/" + strings.Join(parts, "/")
}

// isCLINotFound sniffs the tool's stderr for its two missing-record shapes:
// "Could not resolve to an issue" from the view commands and "HTTP 404" from
// the API passthrough.
func isCLINotFound(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "could not resolve") ||
		strings.Contains(message, "http 404") ||
		strings.Contains(message, "not found")
}
