package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

type stubSource struct {
	tasks []models.Task
	err   error
}

func (s *stubSource) List(ctx context.Context, filter tasks.ListFilter) ([]models.Task, error) {
	return s.tasks, s.err
}

type recordingSender struct {
	sent    []int
	failIDs map[int]bool
}

func (r *recordingSender) Send(ctx context.Context, task models.Task) error {
	if r.failIDs[task.ID] {
		return errors.New("send failed")
	}
	r.sent = append(r.sent, task.ID)
	return nil
}

func dueTasks() []models.Task {
	yesterday := time.Now().AddDate(0, 0, -1)
	today := time.Now()
	tomorrow := time.Now().AddDate(0, 0, 1)
	return []models.Task{
		{ID: 1, Title: "overdue", DueDate: &yesterday},
		{ID: 2, Title: "due today", DueDate: &today},
		{ID: 3, Title: "future", DueDate: &tomorrow},
		{ID: 4, Title: "no due date"},
	}
}

func TestTickAnnouncesDueTasks(t *testing.T) {
	sender := &recordingSender{}
	notifier := New(&stubSource{tasks: dueTasks()}, newTestLedger(t), sender, nil)

	if err := notifier.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(sender.sent) != 2 || sender.sent[0] != 1 || sender.sent[1] != 2 {
		t.Fatalf("expected overdue and due-today announced, got %v", sender.sent)
	}

	// A second tick on the same day announces nothing new.
	if err := notifier.Tick(context.Background()); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected no repeat announcements, got %v", sender.sent)
	}
}

func TestTickRetriesFailedSendNextTick(t *testing.T) {
	sender := &recordingSender{failIDs: map[int]bool{1: true}}
	notifier := New(&stubSource{tasks: dueTasks()}, newTestLedger(t), sender, nil)

	if err := notifier.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != 2 {
		t.Fatalf("expected only task 2 announced, got %v", sender.sent)
	}

	// The failed task was not marked, so the next tick tries again.
	sender.failIDs = nil
	if err := notifier.Tick(context.Background()); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(sender.sent) != 2 || sender.sent[1] != 1 {
		t.Fatalf("expected task 1 announced on retry, got %v", sender.sent)
	}
}

func TestTickPropagatesListError(t *testing.T) {
	notifier := New(&stubSource{err: errors.New("remote down")}, newTestLedger(t), &recordingSender{}, nil)

	if err := notifier.Tick(context.Background()); err == nil {
		t.Fatal("expected list error to propagate")
	}
}

func TestDesktopSenderComposesCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	sender := &DesktopSender{
		command: "notify-send",
		run: func(ctx context.Context, name string, args ...string) error {
			gotName = name
			gotArgs = args
			return nil
		},
	}

	due := time.Now().AddDate(0, 0, -2)
	task := models.Task{ID: 12, Title: "pay invoices", Priority: models.PriorityHigh, DueDate: &due}
	if err := sender.Send(context.Background(), task); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotName != "notify-send" {
		t.Fatalf("expected notify-send, got %q", gotName)
	}
	if len(gotArgs) != 2 {
		t.Fatalf("expected summary and body, got %v", gotArgs)
	}
	if gotArgs[0] != "Task overdue: pay invoices" {
		t.Fatalf("unexpected summary: %q", gotArgs[0])
	}
	if gotArgs[1] != "#12, priority high, due "+models.FormatDate(due) {
		t.Fatalf("unexpected body: %q", gotArgs[1])
	}
}
