package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/pawpal/core/model"
	"github.com/kilianp07/pawpal/core/scheduler"
)

// Entry is one scheduled task in an exported plan.
type Entry struct {
	Label           string `json:"label"`
	Task            string `json:"task"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        int    `json:"priority"`
	PreferredTime   string `json:"preferred_time"`
	Frequency       string `json:"frequency"`
	Notes           string `json:"notes,omitempty"`
}

// Document is the serialisable form of a DailySchedule.
type Document struct {
	Date           string   `json:"date"`
	Owner          string   `json:"owner"`
	Pet            string   `json:"pet"`
	AvailableHours float64  `json:"available_hours"`
	TotalHours     float64  `json:"total_hours"`
	Feasible       bool     `json:"feasible"`
	Tasks          []Entry  `json:"tasks"`
	Skipped        []string `json:"skipped"`
	Conflicts      []string `json:"conflicts"`
	Explanation    string   `json:"explanation,omitempty"`
}

// NewDocument converts d. The explanation is kept only when explain is set.
func NewDocument(d *scheduler.DailySchedule, explain bool) Document {
	doc := Document{
		Date:       d.Date.Format(model.DateLayout),
		TotalHours: d.TotalHours(),
		Feasible:   d.IsFeasible(),
		Tasks:      []Entry{},
		Skipped:    []string{},
		Conflicts:  d.Conflicts(),
	}
	if doc.Conflicts == nil {
		doc.Conflicts = []string{}
	}
	if d.Owner != nil {
		doc.Owner = d.Owner.Name
		doc.AvailableHours = d.Owner.AvailableHoursPerDay
	}
	if d.Pet != nil {
		doc.Pet = d.Pet.Name
	}
	for _, e := range d.Tasks() {
		t := e.Task
		doc.Tasks = append(doc.Tasks, Entry{
			Label:           e.Label,
			Task:            t.Name,
			Category:        t.Category,
			DurationMinutes: t.DurationMinutes,
			Priority:        t.Priority(),
			PreferredTime:   t.PreferredTime.Bucket(),
			Frequency:       string(t.Frequency),
			Notes:           t.Notes,
		})
	}
	for _, t := range d.Skipped() {
		doc.Skipped = append(doc.Skipped, t.Name)
	}
	if explain {
		doc.Explanation = d.Explanation()
	}
	return doc
}

// WriteJSON writes the plan to w as indented JSON.
func WriteJSON(w io.Writer, d *scheduler.DailySchedule, explain bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(d, explain))
}

// WriteCSV writes one row per scheduled task, in plan order.
func WriteCSV(w io.Writer, d *scheduler.DailySchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "task", "category", "duration_minutes", "priority"}); err != nil {
		return err
	}
	for _, e := range d.Tasks() {
		rec := []string{
			e.Label,
			e.Task.Name,
			e.Task.Category,
			strconv.Itoa(e.Task.DurationMinutes),
			strconv.Itoa(e.Task.Priority()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
