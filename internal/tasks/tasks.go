package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/rectsolve/pkg/rectsolve"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/store"
)

// Item is one line of a task file. Either Text or Facts with Targets is set.
type Item struct {
	ID      string      `json:"id"`
	Text    string      `json:"text"`
	HTML    bool        `json:"html"`
	Facts   *rect.Facts `json:"facts,omitempty"`
	Targets []string    `json:"targets,omitempty"`
}

// Request converts the item for Solver.SolveBatch.
func (it Item) Request() (rectsolve.Request, error) {
	req := rectsolve.Request{ID: it.ID, Text: it.Text, HTML: it.HTML}
	if it.Facts != nil {
		req.Facts = *it.Facts
	}
	targets, err := store.ParseTargets(it.Targets)
	if err != nil {
		return req, fmt.Errorf("task %s: %w", it.ID, err)
	}
	req.Targets = targets
	return req, nil
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines are logged
// and skipped.
func LoadFromJSONL(path string, logger *zap.Logger) ([]Item, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logger.Warn("skipping malformed task line",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.Error(err),
			)
			continue
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("line-%d", i+1)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// Requests converts items, logging and skipping the ones with unknown
// targets.
func Requests(items []Item, logger *zap.Logger) []rectsolve.Request {
	if logger == nil {
		logger = zap.NewNop()
	}
	reqs := make([]rectsolve.Request, 0, len(items))
	for _, it := range items {
		req, err := it.Request()
		if err != nil {
			logger.Warn("skipping task", zap.String("id", it.ID), zap.Error(err))
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}
