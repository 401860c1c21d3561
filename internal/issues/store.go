package issues

import "context"

// Store abstracts the remote issue tracker. Both transports implement it; the
// repository never branches on which one is active. Every call is one or more
// blocking round trips to the remote service.
type Store interface {
	ListIssues(ctx context.Context, spec ListSpec) ([]Issue, error)
	GetIssue(ctx context.Context, number int) (Issue, error)
	CreateIssue(ctx context.Context, payload IssuePayload) (Issue, error)
	UpdateIssue(ctx context.Context, number int, payload IssuePayload) (Issue, error)
	CloseIssue(ctx context.Context, number int, reason string) error

	CreateMilestone(ctx context.Context, payload MilestonePayload) (Milestone, error)
	ListMilestones(ctx context.Context, state string) ([]Milestone, error)
	UpdateMilestone(ctx context.Context, number int, payload MilestonePayload) (Milestone, error)

	ListLabels(ctx context.Context) ([]Label, error)
	CreateLabel(ctx context.Context, label Label) error
}

var (
	_ Store = (*RESTStore)(nil)
	_ Store = (*CLIStore)(nil)
)
