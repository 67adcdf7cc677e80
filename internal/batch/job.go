package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airqo/platform/api/internal/model"
	"gopkg.in/yaml.v3"
)

// Job is a batch file: the tenant to update and the items per registry
type Job struct {
	Tenant      string            `json:"tenant" yaml:"tenant"`
	Concurrency int               `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Devices     []model.BatchItem `json:"devices,omitempty" yaml:"devices,omitempty"`
	Sites       []model.BatchItem `json:"sites,omitempty" yaml:"sites,omitempty"`
	Activities  []model.BatchItem `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// LoadJob reads a job file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return ParseJob(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseJob decodes a job
func ParseJob(data []byte, isJSON bool) (*Job, error) {
	var job Job
	if isJSON {
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("parse job: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job: %w", err)
	}
	return &job, nil
}

// Items flattens the job into runner items
func (j *Job) Items() []Item {
	items := make([]Item, 0, len(j.Devices)+len(j.Sites)+len(j.Activities))
	add := func(kind model.RegistryKind, list []model.BatchItem) {
		for i, b := range list {
			items = append(items, Item{Kind: kind, Index: i, BatchItem: b})
		}
	}
	add(model.KindDevice, j.Devices)
	add(model.KindSite, j.Sites)
	add(model.KindActivity, j.Activities)
	return items
}
