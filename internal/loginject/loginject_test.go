package loginject

import (
	"context"
	"testing"

	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/model"
)

func parseFirstClass(t *testing.T, src string) (*model.Unit, *model.Class) {
	t.Helper()
	unit, err := extract.ParseUnit(context.Background(), "Test.java", []byte(src))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}
	return unit, unit.Classes[0]
}

func TestPlanDeclarations(t *testing.T) {
	c := &model.Class{Name: "OrderService", BodyOpen: 10}

	tests := []struct {
		kind    Kind
		decl    string
		imports []string
	}{
		{
			kind:    SLF4J,
			decl:    "private static final Logger LOGGER = LoggerFactory.getLogger(OrderService.class);",
			imports: []string{"org.slf4j.Logger", "org.slf4j.LoggerFactory"},
		},
		{
			kind:    Log4J,
			decl:    "private static final Logger LOGGER = Logger.getLogger(OrderService.class);",
			imports: []string{"org.apache.log4j.Logger"},
		},
		{
			kind:    JUL,
			decl:    "private static final Logger LOGGER = Logger.getLogger(OrderService.class.getName());",
			imports: []string{"java.util.logging.Logger"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			in := Plan(c, tt.kind, "LOGGER")
			if in == nil {
				t.Fatal("expected an injection")
			}
			if in.Declaration != tt.decl {
				t.Errorf("Declaration = %q, want %q", in.Declaration, tt.decl)
			}
			if len(in.Imports) != len(tt.imports) {
				t.Fatalf("Imports = %v, want %v", in.Imports, tt.imports)
			}
			for i := range tt.imports {
				if in.Imports[i] != tt.imports[i] {
					t.Errorf("Imports[%d] = %q, want %q", i, in.Imports[i], tt.imports[i])
				}
			}
			if in.Offset != 11 {
				t.Errorf("Offset = %d, want 11", in.Offset)
			}
		})
	}
}

func TestPlanDefaults(t *testing.T) {
	c := &model.Class{Name: "A"}
	in := Plan(c, Kind("logback"), "")
	if in.Kind != SLF4J {
		t.Errorf("unknown kind should fall back to slf4j, got %s", in.Kind)
	}
	if in.FieldName != DefaultFieldName {
		t.Errorf("FieldName = %q, want %q", in.FieldName, DefaultFieldName)
	}

	in = Plan(c, SLF4J, "log")
	if in.Declaration != "private static final Logger log = LoggerFactory.getLogger(A.class);" {
		t.Errorf("custom field name not used: %s", in.Declaration)
	}
}

func TestPlanSkipsExistingLogger(t *testing.T) {
	tests := []struct {
		name   string
		fields []model.Field
		skip   bool
	}{
		{"no fields", nil, false},
		{"logger named LOGGER", []model.Field{{Name: "LOGGER", Type: "Logger"}}, true},
		{"lowercase log", []model.Field{{Name: "log", Type: "org.slf4j.Logger"}}, true},
		{"commons Log", []model.Field{{Name: "logger", Type: "Log"}}, true},
		// Type matches but the name does not: a duplicate is injected.
		{"logger with unrelated name", []model.Field{{Name: "x", Type: "Logger"}}, false},
		{"name matches, type does not", []model.Field{{Name: "catalog", Type: "String"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &model.Class{Name: "S", Fields: tt.fields}
			if got := HasLogger(c); got != tt.skip {
				t.Errorf("HasLogger = %v, want %v", got, tt.skip)
			}
			if in := Plan(c, SLF4J, "LOGGER"); (in == nil) != tt.skip {
				t.Errorf("Plan returned %v, skip=%v", in, tt.skip)
			}
		})
	}
}

func TestEditInsertsAtTopOfBody(t *testing.T) {
	src := `public class OrderService {
    private String region;
}
`
	unit, c := parseFirstClass(t, src)
	in := Plan(c, SLF4J, "LOGGER")

	out, err := edit.Apply(unit.Source, []edit.Edit{in.Edit()})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := `public class OrderService {
    private static final Logger LOGGER = LoggerFactory.getLogger(OrderService.class);

    private String region;
}
`
	if string(out) != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}

	_, again := parseFirstClass(t, string(out))
	if Plan(again, SLF4J, "LOGGER") != nil {
		t.Error("second run should find the injected logger")
	}
}

func TestIsValidKind(t *testing.T) {
	for _, k := range []string{"slf4j", "log4j", "jul"} {
		if !IsValidKind(k) {
			t.Errorf("IsValidKind(%q) = false", k)
		}
	}
	if IsValidKind("SLF4J") {
		t.Error("kinds are lowercase")
	}
}
