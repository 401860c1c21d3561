package issues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// fakeRunner records each invocation and replays canned responses keyed by
// the first two CLI words.
type fakeRunner struct {
	calls  [][]string
	stdins [][]byte
	out    map[string][]byte
	errs   map[string]error
}

func (f *fakeRunner) run(_ context.Context, stdin []byte, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	f.stdins = append(f.stdins, stdin)
	key := strings.Join(args[:2], " ")
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.out[key], nil
}

func newCLIStoreWithRunner(runner *fakeRunner) *CLIStore {
	return &CLIStore{repo: "acme/backlog", run: runner.run}
}

func TestCLIListIssues(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{
		"issue list": []byte(`[
			{"number": 1, "title": "with milestone", "state": "OPEN", "milestone": {"number": 3, "title": "Sprint 7"}},
			{"number": 2, "title": "without milestone", "state": "OPEN"}
		]`),
	}}
	store := newCLIStoreWithRunner(runner)

	issues, err := store.ListIssues(context.Background(), ListSpec{
		State:     "open",
		Labels:    []string{"status:todo", "status:in-progress"},
		Milestone: "3",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(issues) != 1 || issues[0].Number != 1 {
		t.Fatalf("expected milestone filter to keep issue 1 only, got %+v", issues)
	}

	args := runner.calls[0]
	for _, want := range [][]string{
		{"--repo", "acme/backlog"},
		{"--json", issueFields},
		{"--state", "open"},
		{"--label", "status:todo"},
		{"--label", "status:in-progress"},
		{"--limit", "1000"},
	} {
		if !hasArgPair(args, want[0], want[1]) {
			t.Errorf("expected %s %s in args %v", want[0], want[1], args)
		}
	}
}

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestCLIListIssuesMilestoneNone(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{
		"issue list": []byte(`[
			{"number": 1, "state": "OPEN", "milestone": {"number": 3, "title": "Sprint 7"}},
			{"number": 2, "state": "OPEN"}
		]`),
	}}
	store := newCLIStoreWithRunner(runner)

	issues, err := store.ListIssues(context.Background(), ListSpec{Milestone: "none"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(issues) != 1 || issues[0].Number != 2 {
		t.Fatalf("expected only the unassigned issue, got %+v", issues)
	}
}

func TestCLIGetIssue(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		runner := &fakeRunner{out: map[string][]byte{
			"issue view": []byte(`{"number": 7, "title": "the task", "state": "CLOSED", "stateReason": "COMPLETED"}`),
		}}
		store := newCLIStoreWithRunner(runner)

		issue, err := store.GetIssue(context.Background(), 7)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if issue.State != "closed" || issue.StateReason != ReasonCompleted {
			t.Fatalf("expected lowercased state fields, got %+v", issue)
		}
	})

	t.Run("missing", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{
			"issue view": fmt.Errorf("gh issue view: GraphQL: Could not resolve to an issue or pull request with the number of 99."),
		}}
		store := newCLIStoreWithRunner(runner)

		_, err := store.GetIssue(context.Background(), 99)
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestCLICreateIssueUsesAPIPassthrough(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{
		"api --method": []byte(`{"number": 44, "title": "created", "state": "open", "html_url": "https://example.com/44"}`),
	}}
	store := newCLIStoreWithRunner(runner)

	title := "created"
	body := "details"
	issue, err := store.CreateIssue(context.Background(), IssuePayload{Title: &title, Body: &body})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if issue.Number != 44 || issue.URL != "https://example.com/44" {
		t.Fatalf("unexpected issue %+v", issue)
	}

	args := runner.calls[0]
	want := []string{"api", "--method", "POST", "repos/acme/backlog/issues", "--input", "-"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected args %v, got %v", want, args)
	}

	var sent map[string]any
	if err := json.Unmarshal(runner.stdins[0], &sent); err != nil {
		t.Fatalf("decode stdin: %v", err)
	}
	if sent["title"] != "created" || sent["body"] != "details" {
		t.Fatalf("unexpected payload %v", sent)
	}
}

func TestCLIUpdateIssueNotFound(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"api --method": fmt.Errorf("gh api: Not Found (HTTP 404)"),
	}}
	store := newCLIStoreWithRunner(runner)

	title := "x"
	_, err := store.UpdateIssue(context.Background(), 123, IssuePayload{Title: &title})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCLICloseIssueMapsReason(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{"issue close": nil}}
	store := newCLIStoreWithRunner(runner)

	if err := store.CloseIssue(context.Background(), 6, ReasonNotPlanned); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !hasArgPair(runner.calls[0], "--reason", "not planned") {
		t.Fatalf("expected --reason 'not planned', got %v", runner.calls[0])
	}
}

func TestCLIListMilestonesDecodesPaginatedPages(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{
		"api --paginate": []byte(`[{"number": 1, "title": "Sprint 1", "state": "open"}]
[{"number": 2, "title": "Sprint 2", "state": "open"}]`),
	}}
	store := newCLIStoreWithRunner(runner)

	milestones, err := store.ListMilestones(context.Background(), "open")
	if err != nil {
		t.Fatalf("list milestones: %v", err)
	}
	if len(milestones) != 2 || milestones[1].Title != "Sprint 2" {
		t.Fatalf("expected both pages decoded, got %+v", milestones)
	}
	if got := runner.calls[0][2]; !strings.Contains(got, "state=open") {
		t.Fatalf("expected state filter in path, got %q", got)
	}
}

func TestCLICreateLabel(t *testing.T) {
	runner := &fakeRunner{out: map[string][]byte{"label create": nil}}
	store := newCLIStoreWithRunner(runner)

	err := store.CreateLabel(context.Background(), Label{Name: "status:todo", Color: "ededed", Description: "Queued"})
	if err != nil {
		t.Fatalf("create label: %v", err)
	}
	args := runner.calls[0]
	if args[2] != "status:todo" || !hasArgPair(args, "--color", "ededed") {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestCLIWriteErrorWraps(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"api --method": fmt.Errorf("gh api: Validation Failed (HTTP 422)"),
	}}
	store := newCLIStoreWithRunner(runner)

	title := "bad"
	_, err := store.CreateIssue(context.Background(), IssuePayload{Title: &title})
	var write *RemoteWriteError
	if !errors.As(err, &write) {
		t.Fatalf("expected RemoteWriteError, got %v", err)
	}
	if write.Op != "create issue" {
		t.Fatalf("expected op create issue, got %q", write.Op)
	}
}
