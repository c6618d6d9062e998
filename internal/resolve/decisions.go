package resolve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Decision is one pre-supplied close-match disposition. PromptID is either a
// master-list account ID or the UNMATCHED sentinel.
type Decision struct {
	Key      string `yaml:"key"`
	PromptID string `yaml:"prompt_id"`
}

type decisionFile struct {
	Decisions []Decision `yaml:"decisions"`
}

type queueFile struct {
	Pending []PendingGroup `yaml:"pending"`
}

// LoadDecisions reads a batch decision list. Duplicate keys are an error;
// a stale mix of runs is worse than re-reviewing.
func LoadDecisions(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decisions file: %w", err)
	}
	var df decisionFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse decisions file: %w", err)
	}
	out := make(map[string]string, len(df.Decisions))
	for _, d := range df.Decisions {
		if d.Key == "" || d.PromptID == "" {
			return nil, fmt.Errorf("decisions file: entry missing key or prompt_id")
		}
		if _, dup := out[d.Key]; dup {
			return nil, fmt.Errorf("decisions file: duplicate key %q", d.Key)
		}
		out[d.Key] = d.PromptID
	}
	return out, nil
}

// SaveQueue persists the still-pending close matches so a later run (or an
// out-of-band reviewer) can supply decisions without re-running matching
// interactively.
func SaveQueue(path string, pending []PendingGroup) error {
	data, err := yaml.Marshal(queueFile{Pending: pending})
	if err != nil {
		return fmt.Errorf("encode pending queue: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pending queue: %w", err)
	}
	return nil
}

// LoadQueue reads a persisted pending queue.
func LoadQueue(path string) ([]PendingGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pending queue: %w", err)
	}
	var qf queueFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parse pending queue: %w", err)
	}
	return qf.Pending, nil
}
