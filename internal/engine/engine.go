// Package engine runs the per-file generation pipeline: it classifies each
// target class, reconciles its JavaBean members, plans a logger for
// business classes and lowers everything to one edit plan for the file.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/beanwright/jbgen/internal/classify"
	"github.com/beanwright/jbgen/internal/config"
	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/imports"
	"github.com/beanwright/jbgen/internal/loginject"
	"github.com/beanwright/jbgen/internal/model"
	"github.com/beanwright/jbgen/internal/reconcile"
	"github.com/beanwright/jbgen/internal/synth"
)

// Options is the per-invocation configuration of the pipeline.
type Options struct {
	GetterSetter bool
	ToString     bool
	Style        synth.Style
	InjectLogger bool
	LoggerKind   loginject.Kind
	LoggerField  string
	// InnerClasses plans nested classes along with their enclosing class.
	InnerClasses bool
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig builds Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		GetterSetter: cfg.Generate.GetterSetter,
		ToString:     cfg.Generate.ToString,
		Style:        synth.Style(cfg.Generate.ToStringStyle),
		InjectLogger: cfg.Logger.Inject,
		LoggerKind:   loginject.Kind(cfg.Logger.Type),
		LoggerField:  cfg.Logger.FieldName,
		InnerClasses: cfg.Generate.ProcessInnerClasses,
	}
}

func (o Options) synthOptions() synth.Options {
	return synth.Options{
		GetterSetter: o.GetterSetter,
		ToString:     o.ToString,
		Style:        o.Style,
	}
}

// ClassPlan is everything decided for one class.
type ClassPlan struct {
	Class          string               `json:"class" yaml:"class"`
	Classification classify.Result      `json:"classification" yaml:"classification"`
	Reconcile      *reconcile.Plan      `json:"reconcile" yaml:"reconcile"`
	Logger         *loginject.Injection `json:"logger,omitempty" yaml:"logger,omitempty"`
}

// FilePlan is the edit plan for one compilation unit.
type FilePlan struct {
	Path    string      `json:"path,omitempty" yaml:"path,omitempty"`
	Classes []ClassPlan `json:"classes" yaml:"classes"`
	// Imports are the import declarations the plan adds.
	Imports []string    `json:"imports,omitempty" yaml:"imports,omitempty"`
	Edits   []edit.Edit `json:"edits,omitempty" yaml:"edits,omitempty"`
}

// Empty reports whether applying the plan changes nothing.
func (p *FilePlan) Empty() bool {
	return len(p.Edits) == 0
}

// Engine plans and applies generation for single files.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New returns an Engine. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{opts: opts, logger: logger}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Plan parses src and plans the classes selected by target. A nil target
// selects every top-level class.
func (e *Engine) Plan(ctx context.Context, path string, src []byte, target *Target) (*FilePlan, error) {
	unit, err := extract.ParseUnit(ctx, path, src)
	if err != nil {
		return nil, err
	}

	var roots []*model.Class
	if target != nil {
		c, err := ResolveTarget(unit, *target)
		if err != nil {
			return nil, err
		}
		roots = []*model.Class{c}
	} else {
		roots = unit.Classes
	}

	return e.PlanUnit(unit, e.expand(roots)), nil
}

// expand adds nested classes, depth-first, when inner classes are enabled.
func (e *Engine) expand(roots []*model.Class) []*model.Class {
	var out []*model.Class
	var walk func(cs []*model.Class)
	walk = func(cs []*model.Class) {
		for _, c := range cs {
			out = append(out, c)
			if e.opts.InnerClasses {
				walk(c.Inner)
			}
		}
	}
	walk(roots)
	return out
}

// PlanUnit plans the given classes of an already parsed unit.
func (e *Engine) PlanUnit(unit *model.Unit, classes []*model.Class) *FilePlan {
	plan := &FilePlan{Path: unit.Path}
	var wanted []string
	var classEdits []edit.Edit

	for _, c := range classes {
		cp := ClassPlan{
			Class:          c.Name,
			Classification: classify.Classify(c),
		}

		cp.Reconcile = reconcile.Compute(c, unit.Source, e.opts.synthOptions())
		wanted = append(wanted, cp.Reconcile.Insertions.Imports...)

		if e.opts.InjectLogger && cp.Classification.Tag == classify.BusinessClass {
			cp.Logger = loginject.Plan(c, e.opts.LoggerKind, e.opts.LoggerField)
		}
		if cp.Logger != nil {
			wanted = append(wanted, cp.Logger.Imports...)
			// The logger goes first when both land right after the brace.
			classEdits = append(classEdits, cp.Logger.Edit())
		}
		classEdits = append(classEdits, cp.Reconcile.Edits(unit.Source)...)

		e.logger.Debug("planned class",
			"file", unit.Path,
			"class", c.Name,
			"tag", cp.Classification.Tag,
			"bean_score", cp.Classification.BeanScore,
			"business_score", cp.Classification.BusinessScore,
			"insertions", cp.Reconcile.Insertions.Len(),
			"deletions", len(cp.Reconcile.Deletions),
			"logger", cp.Logger != nil,
		)
		plan.Classes = append(plan.Classes, cp)
	}

	plan.Imports = imports.Missing(unit, wanted)
	plan.Edits = append(imports.Edits(unit, wanted), classEdits...)
	return plan
}

// Generate plans src and applies the plan, returning the rewritten text.
// When the plan is empty the output is src itself.
func (e *Engine) Generate(ctx context.Context, path string, src []byte, target *Target) ([]byte, *FilePlan, error) {
	plan, err := e.Plan(ctx, path, src, target)
	if err != nil {
		return nil, nil, err
	}
	if plan.Empty() {
		return src, plan, nil
	}

	out, err := edit.Apply(src, plan.Edits)
	if err != nil {
		return nil, plan, fmt.Errorf("applying plan to %s: %w", path, err)
	}
	return out, plan, nil
}
