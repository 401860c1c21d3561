package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

// Source lists the tasks a tick inspects.
type Source interface {
	List(ctx context.Context, filter tasks.ListFilter) ([]models.Task, error)
}

// Sender announces one task to the user.
type Sender interface {
	Send(ctx context.Context, task models.Task) error
}

// Notifier runs the recurring announcement loop.
type Notifier struct {
	source Source
	ledger *Ledger
	sender Sender
	log    *slog.Logger
}

// New creates a notifier. A nil logger falls back to slog.Default.
func New(source Source, ledger *Ledger, sender Sender, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{source: source, ledger: ledger, sender: sender, log: log}
}

// Run ticks immediately and then on every interval until ctx is done. Ticks
// run on one goroutine, so a slow tick delays the next instead of overlapping
// it; a failed tick is logged and the loop keeps going.
func (n *Notifier) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := n.Tick(ctx); err != nil {
		n.log.Error("notify tick failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.Tick(ctx); err != nil {
				n.log.Error("notify tick failed", "error", err)
			}
		}
	}
}

// Tick lists incomplete tasks and announces the due-today and overdue ones
// not yet announced today.
func (n *Notifier) Tick(ctx context.Context) error {
	list, err := n.source.List(ctx, tasks.ListFilter{})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now()
	day := models.FormatDate(now)
	announced := 0
	for _, task := range list {
		if !task.DueOn(now) && !task.DueBefore(now) {
			continue
		}
		sent, err := n.ledger.Sent(task.ID, day)
		if err != nil {
			return fmt.Errorf("check ledger: %w", err)
		}
		if sent {
			continue
		}
		if err := n.sender.Send(ctx, task); err != nil {
			n.log.Warn("notification failed", "task", task.ID, "error", err)
			continue
		}
		if err := n.ledger.MarkSent(task.ID, day); err != nil {
			return fmt.Errorf("mark sent: %w", err)
		}
		announced++
	}

	if announced > 0 {
		n.log.Info("tasks announced", "count", announced, "day", day)
	}
	return nil
}

type runnerFunc func(ctx context.Context, name string, args ...string) error

// DesktopSender shells a desktop notification command, notify-send by default.
type DesktopSender struct {
	command string
	run     runnerFunc
}

// NewDesktopSender creates a sender shelling the given command.
func NewDesktopSender(command string) *DesktopSender {
	if command == "" {
		command = "notify-send"
	}
	return &DesktopSender{command: command, run: runCommand}
}

// Send announces one task.
func (s *DesktopSender) Send(ctx context.Context, task models.Task) error {
	summary := "Task due today: " + task.Title
	if task.DueBefore(time.Now()) {
		summary = "Task overdue: " + task.Title
	}
	body := fmt.Sprintf("#%d, priority %s", task.ID, task.Priority)
	if task.DueDate != nil {
		body += ", due " + models.FormatDate(*task.DueDate)
	}
	return s.run(ctx, s.command, summary, body)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s", name, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
