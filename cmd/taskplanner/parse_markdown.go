package main

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

var listItemRegex = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)

// parseMarkdown splits a batch-add file into optional YAML front matter and
// its markdown list items. Every `- item` line becomes one task title.
func parseMarkdown(input string) (map[string]any, []string, error) {
	frontMatter := map[string]any{}
	content := input

	lines := strings.Split(input, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return nil, nil, fmt.Errorf("front matter not closed")
		}
		frontText := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontText), &frontMatter); err != nil {
			return nil, nil, err
		}
		content = strings.Join(lines[end+1:], "\n")
	}

	items := []string{}
	for _, line := range strings.Split(content, "\n") {
		match := listItemRegex.FindStringSubmatch(line)
		if len(match) == 2 {
			item := strings.TrimSpace(match[1])
			if item != "" {
				items = append(items, item)
			}
		}
	}

	return frontMatter, items, nil
}

// frontMatterToOptions maps front matter keys onto shared create options for
// every task in the batch.
func frontMatterToOptions(frontMatter map[string]any) (tasks.CreateOptions, error) {
	opts := tasks.CreateOptions{}

	if value, ok := frontMatter["status"].(string); ok {
		status, err := models.ParseStatus(value)
		if err != nil {
			return opts, err
		}
		opts.Status = status
	}
	if value, ok := frontMatter["priority"].(string); ok {
		priority, err := models.ParsePriority(value)
		if err != nil {
			return opts, err
		}
		opts.Priority = priority
	}
	if value, ok := frontMatter["due"].(string); ok {
		due, err := models.ParseDate(value)
		if err != nil {
			return opts, err
		}
		opts.DueDate = &due
	}
	if value, ok := frontMatter["assignee"].(string); ok {
		opts.Assignee = value
	}
	if value, ok := frontMatter["myday"].(bool); ok {
		opts.MyDay = value
	}
	if value, ok := frontMatter["sprint"]; ok {
		if sprintID, ok := toInt(value); ok && sprintID > 0 {
			opts.SprintID = &sprintID
		}
	}
	if value, ok := frontMatter["estimate"]; ok {
		switch v := value.(type) {
		case int:
			opts.EstimatedHours = float64(v)
		case float64:
			opts.EstimatedHours = v
		}
	}
	if value, ok := frontMatter["tags"]; ok {
		opts.Tags = toStringSlice(value)
	}

	return opts, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitCommaList(v)
	}
	return nil
}
