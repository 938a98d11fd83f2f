package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/beanwright/jbgen/internal/classify"
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/loginject"
	"github.com/beanwright/jbgen/internal/parser"
)

func generate(t *testing.T, e *Engine, src string, target *Target) (string, *FilePlan) {
	t.Helper()
	out, plan, err := e.Generate(context.Background(), "Test.java", []byte(src), target)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return string(out), plan
}

const serviceSource = `package com.x.service;

@Service
public class OrderService {
    public void place() {
    }

    public void cancel() {
    }

    public void refund() {
    }
}
`

func TestGenerateBusinessClassGetsLogger(t *testing.T) {
	e := New(DefaultOptions(), nil)
	out, plan := generate(t, e, serviceSource, nil)

	if len(plan.Classes) != 1 {
		t.Fatalf("expected one class plan, got %d", len(plan.Classes))
	}
	cp := plan.Classes[0]
	if cp.Classification.Tag != classify.BusinessClass || cp.Classification.BusinessScore < 7 {
		t.Errorf("unexpected classification %+v", cp.Classification)
	}
	if cp.Logger == nil {
		t.Fatal("business class should get a logger")
	}

	want := `package com.x.service;

import org.slf4j.Logger;
import org.slf4j.LoggerFactory;

@Service
public class OrderService {
    private static final Logger LOGGER = LoggerFactory.getLogger(OrderService.class);

    public void place() {
    }
`
	if !strings.HasPrefix(out, want) {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Join(plan.Imports, ",") != "org.slf4j.Logger,org.slf4j.LoggerFactory" {
		t.Errorf("Imports = %v", plan.Imports)
	}

	again, plan2 := generate(t, e, out, nil)
	if !plan2.Empty() || again != out {
		t.Errorf("second run should change nothing, got %d edits", len(plan2.Edits))
	}
}

func TestGenerateBeanGetsNoLogger(t *testing.T) {
	src := `package com.x.dto;

public class Item {
    private String a;

    public String getA() {
        return a;
    }

    public void setA(String a) {
        this.a = a;
    }
}
`
	e := New(DefaultOptions(), nil)
	out, plan := generate(t, e, src, nil)

	cp := plan.Classes[0]
	if cp.Classification.Tag != classify.JavaBean || cp.Classification.BeanScore != 5 {
		t.Errorf("unexpected classification %+v", cp.Classification)
	}
	if cp.Logger != nil {
		t.Error("a JavaBean must not get a logger")
	}
	if len(plan.Imports) != 0 {
		t.Errorf("unexpected imports %v", plan.Imports)
	}
	if strings.Count(out, "getA()") != 1 || strings.Count(out, "setA(") != 1 {
		t.Errorf("accessors duplicated:\n%s", out)
	}
	if !strings.Contains(out, `return "{" + "\"a\":\"" + a + "\"" + "}";`) {
		t.Errorf("missing toString:\n%s", out)
	}
}

func TestGenerateFooIsStable(t *testing.T) {
	src := `public class Foo {
    private String name;
    private boolean isVip;
}
`
	e := New(DefaultOptions(), nil)
	first, _ := generate(t, e, src, nil)
	second, plan := generate(t, e, first, nil)

	for _, cp := range plan.Classes {
		for _, m := range cp.Reconcile.Insertions.Members {
			if m.Name != "toString" {
				t.Errorf("second run inserted %s", m.Name)
			}
		}
	}
	third, _ := generate(t, e, second, nil)
	if third != second {
		t.Error("repeated runs should converge")
	}
}

func TestGenerateLoggerDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.InjectLogger = false
	out, plan := generate(t, New(opts, nil), serviceSource, nil)
	if plan.Classes[0].Logger != nil || strings.Contains(out, "LOGGER") {
		t.Error("logger injection should be off")
	}
	if out != serviceSource {
		t.Errorf("nothing else should change:\n%s", out)
	}
}

func TestGenerateLoggerKinds(t *testing.T) {
	opts := DefaultOptions()
	opts.LoggerKind = loginject.JUL
	opts.LoggerField = "log"
	out, _ := generate(t, New(opts, nil), serviceSource, nil)

	if !strings.Contains(out, "import java.util.logging.Logger;") {
		t.Errorf("missing jul import:\n%s", out)
	}
	if !strings.Contains(out, "private static final Logger log = Logger.getLogger(OrderService.class.getName());") {
		t.Errorf("missing jul declaration:\n%s", out)
	}
}

func TestGenerateApacheStyleAddsImport(t *testing.T) {
	opts := DefaultOptions()
	opts.Style = "apache"
	src := "package com.x.dto;\n\nimport java.util.List;\n\npublic class Bag {\n    private List<String> items;\n}\n"
	out, _ := generate(t, New(opts, nil), src, nil)

	if !strings.Contains(out, "import java.util.List;\nimport org.apache.commons.lang3.builder.ToStringBuilder;\n") {
		t.Errorf("missing ToStringBuilder import:\n%s", out)
	}
	if !strings.Contains(out, "public List<String> getItems()") {
		t.Errorf("missing generic getter:\n%s", out)
	}
}

const nestedSource = `package com.x.model;

public class Outer {
    private int a;

    public static class Inner {
        private int b;
    }
}
`

func TestGenerateInnerClasses(t *testing.T) {
	e := New(DefaultOptions(), nil)
	out, plan := generate(t, e, nestedSource, nil)
	if len(plan.Classes) != 1 || strings.Contains(out, "getB()") {
		t.Error("inner classes should be skipped by default")
	}

	opts := DefaultOptions()
	opts.InnerClasses = true
	out, plan = generate(t, New(opts, nil), nestedSource, nil)
	if len(plan.Classes) != 2 {
		t.Fatalf("expected outer and inner plans, got %d", len(plan.Classes))
	}
	if !strings.Contains(out, "public int getA()") || !strings.Contains(out, "        public int getB() {\n            return b;\n        }") {
		t.Errorf("expected accessors for both classes:\n%s", out)
	}

	if _, err := extract.ParseUnit(context.Background(), "Outer.java", []byte(out)); err != nil {
		t.Errorf("output is not valid Java: %v", err)
	}
}

func TestGenerateTargets(t *testing.T) {
	e := New(DefaultOptions(), nil)

	_, plan := generate(t, e, nestedSource, &Target{ClassName: "Inner"})
	if len(plan.Classes) != 1 || plan.Classes[0].Class != "Inner" {
		t.Errorf("class target: got %+v", plan.Classes)
	}

	_, plan = generate(t, e, nestedSource, &Target{Line: 7})
	if plan.Classes[0].Class != "Inner" {
		t.Errorf("line 7 should resolve to Inner, got %s", plan.Classes[0].Class)
	}

	_, plan = generate(t, e, nestedSource, &Target{Line: 3})
	if plan.Classes[0].Class != "Outer" {
		t.Errorf("line 3 should resolve to Outer, got %s", plan.Classes[0].Class)
	}
}

func TestGenerateAmbiguousTarget(t *testing.T) {
	e := New(DefaultOptions(), nil)

	tests := []struct {
		name   string
		src    string
		target Target
	}{
		{"unknown class", nestedSource, Target{ClassName: "Missing"}},
		{"line past end", nestedSource, Target{Line: 100}},
		{"line outside class", nestedSource, Target{Line: 1}},
		{"no class", "package p;\n\ninterface I {}\n", Target{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.Generate(context.Background(), "A.java", []byte(tt.src), &tt.target)
			var ae *AmbiguityError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *AmbiguityError, got %v", err)
			}
		})
	}
}

func TestGenerateRejectsInvalidJava(t *testing.T) {
	e := New(DefaultOptions(), nil)
	_, _, err := e.Generate(context.Background(), "Broken.java", []byte("public class {"), nil)
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}
	if pe.File != "Broken.java" {
		t.Errorf("error should name the file, got %q", pe.File)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := DefaultOptions()
	if !opts.GetterSetter || !opts.ToString || !opts.InjectLogger || opts.InnerClasses {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.Style != "json" || opts.LoggerKind != loginject.SLF4J || opts.LoggerField != "LOGGER" {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}
