package output

import (
	"bytes"
	"time"

	"github.com/beanwright/jbgen/internal/batch"
	"github.com/beanwright/jbgen/internal/classify"
	"github.com/beanwright/jbgen/internal/engine"
	"github.com/beanwright/jbgen/internal/history"
	"github.com/beanwright/jbgen/internal/model"
)

// ClassifyOutput is the classification of every class in a file.
type ClassifyOutput struct {
	File    string        `json:"file" yaml:"file"`
	Classes []ClassResult `json:"classes" yaml:"classes"`
}

// ClassResult is one classified class.
type ClassResult struct {
	Class           string       `json:"class" yaml:"class"`
	Line            int          `json:"line" yaml:"line"`
	Tag             classify.Tag `json:"tag" yaml:"tag"`
	BeanScore       int          `json:"bean_score" yaml:"bean_score"`
	BusinessScore   int          `json:"business_score" yaml:"business_score"`
	PrivateFields   int          `json:"private_fields" yaml:"private_fields"`
	Accessors       int          `json:"accessors" yaml:"accessors"`
	BusinessMethods int          `json:"business_methods" yaml:"business_methods"`
}

// NewClassifyOutput classifies every class of u, nested ones included.
func NewClassifyOutput(u *model.Unit) *ClassifyOutput {
	out := &ClassifyOutput{File: u.Path, Classes: []ClassResult{}}
	for _, c := range u.AllClasses() {
		r := classify.Classify(c)
		out.Classes = append(out.Classes, ClassResult{
			Class:           c.Name,
			Line:            LineOf(u.Source, c.Span.Start),
			Tag:             r.Tag,
			BeanScore:       r.BeanScore,
			BusinessScore:   r.BusinessScore,
			PrivateFields:   r.PrivateFields,
			Accessors:       r.Accessors,
			BusinessMethods: r.BusinessMethods,
		})
	}
	return out
}

// PlanOutput summarizes a generation plan for one file.
type PlanOutput struct {
	File    string            `json:"file" yaml:"file"`
	Changed bool              `json:"changed" yaml:"changed"`
	Imports []string          `json:"imports,omitempty" yaml:"imports,omitempty"`
	Classes []ClassPlanOutput `json:"classes" yaml:"classes"`
}

// ClassPlanOutput is the per-class part of a PlanOutput.
type ClassPlanOutput struct {
	Class         string       `json:"class" yaml:"class"`
	Tag           classify.Tag `json:"tag" yaml:"tag"`
	BeanScore     int          `json:"bean_score" yaml:"bean_score"`
	BusinessScore int          `json:"business_score" yaml:"business_score"`
	Delete        []string     `json:"delete,omitempty" yaml:"delete,omitempty"`
	Insert        []string     `json:"insert,omitempty" yaml:"insert,omitempty"`
	// InsertAfter names the member the generated block follows.
	InsertAfter string `json:"insert_after,omitempty" yaml:"insert_after,omitempty"`
	// Separator is "new", "existing" or empty when the block follows fields.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`
	Logger    string `json:"logger,omitempty" yaml:"logger,omitempty"`
}

// NewPlanOutput summarizes plan. changed tells whether applying the plan
// alters the file text.
func NewPlanOutput(plan *engine.FilePlan, changed bool) *PlanOutput {
	out := &PlanOutput{
		File:    plan.Path,
		Changed: changed,
		Imports: plan.Imports,
		Classes: []ClassPlanOutput{},
	}
	for _, cp := range plan.Classes {
		co := ClassPlanOutput{
			Class:         cp.Class,
			Tag:           cp.Classification.Tag,
			BeanScore:     cp.Classification.BeanScore,
			BusinessScore: cp.Classification.BusinessScore,
		}
		if rp := cp.Reconcile; rp != nil {
			for _, m := range rp.Deletions {
				co.Delete = append(co.Delete, m.Name)
			}
			for _, m := range rp.Insertions.Members {
				co.Insert = append(co.Insert, m.Name)
			}
			if rp.Insertions.Len() > 0 {
				co.InsertAfter = rp.Insertion.Anchor
				switch {
				case rp.Insertion.EmitSeparator:
					co.Separator = "new"
				case rp.Insertion.PrecededBySeparator:
					co.Separator = "existing"
				}
			}
		}
		if cp.Logger != nil {
			co.Logger = cp.Logger.Declaration
		}
		out.Classes = append(out.Classes, co)
	}
	return out
}

// BatchOutput is the machine-readable batch report.
type BatchOutput struct {
	RunID  string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	DryRun bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Report *batch.Report `json:"report" yaml:"report"`
}

// RunOutput is one history entry.
type RunOutput struct {
	ID        string `json:"id" yaml:"id"`
	Command   string `json:"command" yaml:"command"`
	StartedAt string `json:"started_at" yaml:"started_at"`
	Total     int    `json:"total" yaml:"total"`
	Changed   int    `json:"changed" yaml:"changed"`
	Failed    int    `json:"failed" yaml:"failed"`
	Undone    bool   `json:"undone,omitempty" yaml:"undone,omitempty"`
}

// RunsOutput lists history entries, newest first.
type RunsOutput struct {
	Runs []RunOutput `json:"runs" yaml:"runs"`
}

// NewRunsOutput converts stored runs for display.
func NewRunsOutput(runs []history.Run) *RunsOutput {
	out := &RunsOutput{Runs: []RunOutput{}}
	for _, r := range runs {
		out.Runs = append(out.Runs, RunOutput{
			ID:        r.ID,
			Command:   r.Command,
			StartedAt: r.StartedAt.Local().Format(time.DateTime),
			Total:     r.Total,
			Changed:   r.Changed,
			Failed:    r.Failed,
			Undone:    r.UndoneAt != nil,
		})
	}
	return out
}

// StatsOutput summarizes what the history database holds.
type StatsOutput struct {
	Database     string `json:"database" yaml:"database"`
	Runs         int64  `json:"runs" yaml:"runs"`
	FileChanges  int64  `json:"file_changes" yaml:"file_changes"`
	IndexedFiles int64  `json:"indexed_files" yaml:"indexed_files"`
}

// NewStatsOutput converts store statistics for display.
func NewStatsOutput(path string, stats *history.Stats) *StatsOutput {
	return &StatsOutput{
		Database:     path,
		Runs:         stats.Runs,
		FileChanges:  stats.Changes,
		IndexedFiles: stats.FileIndex,
	}
}

// LineOf returns the 1-based line of a byte offset in src.
func LineOf(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		offset = 0
	}
	return bytes.Count(src[:offset], []byte("\n")) + 1
}
