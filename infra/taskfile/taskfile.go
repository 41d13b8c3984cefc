// Package taskfile reads and writes the task definitions a plan is built from.
// Files are YAML (.yaml, .yml) or JSON (.json) holding a top-level "tasks" list.
package taskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/pawpal/core/model"
)

// Record is the on-disk form of a task.
type Record struct {
	Name            string `json:"name" yaml:"name"`
	Category        string `json:"category" yaml:"category"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	Priority        int    `json:"priority" yaml:"priority"`
	PreferredTime   string `json:"preferred_time,omitempty" yaml:"preferred_time,omitempty"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Frequency       string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Completed       bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	DueDate         string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

// File is the document stored on disk.
type File struct {
	Tasks []Record `json:"tasks" yaml:"tasks"`
}

// Task validates r and builds the task.
func (r Record) Task() (*model.Task, error) {
	when, err := model.ParseTimeOfDay(r.PreferredTime)
	if err != nil {
		return nil, err
	}
	freq, err := model.ParseFrequency(r.Frequency)
	if err != nil {
		return nil, err
	}
	opts := []model.TaskOption{
		model.WithPreferredTime(when),
		model.WithNotes(r.Notes),
		model.WithFrequency(freq),
		model.WithCompleted(r.Completed),
	}
	if r.DueDate != "" {
		due, err := time.Parse(model.DateLayout, r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date %q: %w", r.DueDate, err)
		}
		opts = append(opts, model.WithDueDate(due))
	}
	return model.NewTask(r.Name, r.Category, r.DurationMinutes, r.Priority, opts...)
}

// FromTask converts t to its on-disk form.
func FromTask(t *model.Task) Record {
	r := Record{
		Name:            t.Name,
		Category:        t.Category,
		DurationMinutes: t.DurationMinutes,
		Priority:        t.Priority(),
		PreferredTime:   string(t.PreferredTime),
		Notes:           t.Notes,
		Frequency:       string(t.Frequency),
		Completed:       t.IsCompleted(),
	}
	if t.HasDueDate() {
		r.DueDate = t.DueDate.Format(model.DateLayout)
	}
	return r
}

type format int

const (
	formatYAML format = iota
	formatJSON
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported task file extension %q", filepath.Ext(path))
	}
}

// Load reads path and returns its tasks in file order.
func Load(path string) (*model.TaskList, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc File
	switch f {
	case formatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&doc); errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	list := model.NewTaskList()
	for i, r := range doc.Tasks {
		t, err := r.Task()
		if err != nil {
			return nil, fmt.Errorf("%s: task %d (%s): %w", path, i+1, r.Name, err)
		}
		list.Append(t)
	}
	return list, nil
}

// Save writes tasks to path, replacing the file atomically.
func Save(path string, tasks []*model.Task) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	doc := File{Tasks: make([]Record, len(tasks))}
	for i, t := range tasks {
		doc.Tasks[i] = FromTask(t)
	}
	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
