package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultAPIBaseURL  = "https://api.github.com"
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "TASKPLANNER_HTTP_TIMEOUT"
	apiVersionHeader   = "2022-11-28"
	pageSize           = 100
)

// RESTStore talks to the tracker's REST API directly. Reads and writes both
// use the conventional snake_case wire shape.
type RESTStore struct {
	baseURL string
	repo    string // "owner/name"
	http    *http.Client
}

// NewRESTStore creates a store for the given repository. baseURL is the API
// root, empty for the hosted service. The token, when present, is carried as
// an OAuth2 bearer credential.
func NewRESTStore(baseURL, repo, token string) *RESTStore {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		http:    newHTTPClient(token),
	}
}

func newHTTPClient(token string) *http.Client {
	if token == "" {
		return &http.Client{Timeout: httpTimeoutFromEnv()}
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), source)
	client.Timeout = httpTimeoutFromEnv()
	return client
}

func (s *RESTStore) ListIssues(ctx context.Context, spec ListSpec) ([]Issue, error) {
	query := url.Values{}
	if spec.State != "" {
		query.Set("state", spec.State)
	}
	if len(spec.Labels) > 0 {
		query.Set("labels", strings.Join(spec.Labels, ","))
	}
	if spec.Assignee != "" {
		query.Set("assignee", spec.Assignee)
	}
	if spec.Milestone != "" {
		query.Set("milestone", spec.Milestone)
	}

	var issues []Issue
	for page := 1; ; page++ {
		query.Set("per_page", strconv.Itoa(pageSize))
		query.Set("page", strconv.Itoa(page))

		var raws []RawIssue
		if err := s.do(ctx, http.MethodGet, s.repoPath("issues"), query, nil, &raws); err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
		for _, raw := range raws {
			// The issues listing endpoint also returns pull requests.
			if raw.PullRequest != nil {
				continue
			}
			issues = append(issues, NormalizeIssue(raw))
		}
		if len(raws) < pageSize {
			return issues, nil
		}
	}
}

func (s *RESTStore) GetIssue(ctx context.Context, number int) (Issue, error) {
	var raw RawIssue
	err := s.do(ctx, http.MethodGet, s.repoPath("issues", strconv.Itoa(number)), nil, nil, &raw)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return Issue{}, &NotFoundError{Resource: "task", Number: number}
		}
		return Issue{}, fmt.Errorf("get issue %d: %w", number, err)
	}
	if raw.PullRequest != nil {
		return Issue{}, &NotFoundError{Resource: "task", Number: number}
	}
	return NormalizeIssue(raw), nil
}

func (s *RESTStore) CreateIssue(ctx context.Context, payload IssuePayload) (Issue, error) {
	var raw RawIssue
	if err := s.do(ctx, http.MethodPost, s.repoPath("issues"), nil, payload, &raw); err != nil {
		return Issue{}, writeError("create issue", err)
	}
	return NormalizeIssue(raw), nil
}

func (s *RESTStore) UpdateIssue(ctx context.Context, number int, payload IssuePayload) (Issue, error) {
	var raw RawIssue
	err := s.do(ctx, http.MethodPatch, s.repoPath("issues", strconv.Itoa(number)), nil, payload, &raw)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return Issue{}, &NotFoundError{Resource: "task", Number: number}
		}
		return Issue{}, writeError(fmt.Sprintf("update issue %d", number), err)
	}
	return NormalizeIssue(raw), nil
}

// CloseIssue closes with the given machine-form reason ("completed" or
// "not_planned").
func (s *RESTStore) CloseIssue(ctx context.Context, number int, reason string) error {
	state := "closed"
	payload := IssuePayload{State: &state}
	if reason != "" {
		payload.StateReason = &reason
	}
	_, err := s.UpdateIssue(ctx, number, payload)
	return err
}

func (s *RESTStore) CreateMilestone(ctx context.Context, payload MilestonePayload) (Milestone, error) {
	var raw RawMilestone
	if err := s.do(ctx, http.MethodPost, s.repoPath("milestones"), nil, payload, &raw); err != nil {
		return Milestone{}, writeError("create milestone", err)
	}
	return NormalizeMilestone(raw), nil
}

func (s *RESTStore) ListMilestones(ctx context.Context, state string) ([]Milestone, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}

	var milestones []Milestone
	for page := 1; ; page++ {
		query.Set("per_page", strconv.Itoa(pageSize))
		query.Set("page", strconv.Itoa(page))

		var raws []RawMilestone
		if err := s.do(ctx, http.MethodGet, s.repoPath("milestones"), query, nil, &raws); err != nil {
			return nil, fmt.Errorf("list milestones: %w", err)
		}
		for _, raw := range raws {
			milestones = append(milestones, NormalizeMilestone(raw))
		}
		if len(raws) < pageSize {
			return milestones, nil
		}
	}
}

func (s *RESTStore) UpdateMilestone(ctx context.Context, number int, payload MilestonePayload) (Milestone, error) {
	var raw RawMilestone
	err := s.do(ctx, http.MethodPatch, s.repoPath("milestones", strconv.Itoa(number)), nil, payload, &raw)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return Milestone{}, &NotFoundError{Resource: "milestone", Number: number}
		}
		return Milestone{}, writeError(fmt.Sprintf("update milestone %d", number), err)
	}
	return NormalizeMilestone(raw), nil
}

func (s *RESTStore) ListLabels(ctx context.Context) ([]Label, error) {
	query := url.Values{}

	var labels []Label
	for page := 1; ; page++ {
		query.Set("per_page", strconv.Itoa(pageSize))
		query.Set("page", strconv.Itoa(page))

		var raws []Label
		if err := s.do(ctx, http.MethodGet, s.repoPath("labels"), query, nil, &raws); err != nil {
			return nil, fmt.Errorf("list labels: %w", err)
		}
		labels = append(labels, raws...)
		if len(raws) < pageSize {
			return labels, nil
		}
	}
}

func (s *RESTStore) CreateLabel(ctx context.Context, label Label) error {
	if err := s.do(ctx, http.MethodPost, s.repoPath("labels"), nil, label, nil); err != nil {
		return writeError(fmt.Sprintf("create label %s", label.Name), err)
	}
	return nil
}

func (s *RESTStore) repoPath(parts ...string) string {
	return "/repos/" + s.repo + "/" + strings.Join(parts, "/")
}

func (s *RESTStore) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersionHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeStatusError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError carries the HTTP status of a failed call so callers can map 404
// to NotFoundError and everything else to RemoteWriteError.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s (status %d)", e.message, e.status)
	}
	return fmt.Sprintf("status %d", e.status)
}

func decodeStatusError(resp *http.Response) error {
	decoded := &statusError{status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		decoded.message = payload.Message
	}
	if decoded.message == "" {
		decoded.message = resp.Status
	}
	return decoded
}

func statusOf(err error) int {
	var decoded *statusError
	if errors.As(err, &decoded) {
		return decoded.status
	}
	return 0
}

func writeError(op string, err error) error {
	var decoded *statusError
	if errors.As(err, &decoded) {
		return &RemoteWriteError{Op: op, Status: decoded.status, Message: decoded.message}
	}
	return &RemoteWriteError{Op: op, Err: err}
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
