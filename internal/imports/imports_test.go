package imports

import (
	"context"
	"strings"
	"testing"

	"github.com/beanwright/jbgen/internal/edit"
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/model"
)

func parse(t *testing.T, src string) *model.Unit {
	t.Helper()
	unit, err := extract.ParseUnit(context.Background(), "Test.java", []byte(src))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}
	return unit
}

func TestMissing(t *testing.T) {
	unit := parse(t, `package org.acme;

import java.util.List;
import org.slf4j.*;
import static org.junit.Assert.assertEquals;

class A {}
`)

	got := Missing(unit, []string{
		"java.util.List",         // explicit
		"org.slf4j.Logger",       // wildcard
		"org.junit.Assert",       // only statically imported
		"java.lang.String",       // implicit
		"org.acme.Helper",        // same package
		"java.util.logging.Logger",
		"java.util.logging.Logger", // duplicate
	})
	want := []string{"org.junit.Assert", "java.util.logging.Logger"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Missing = %v, want %v", got, want)
	}
}

func TestEditsPlacement(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "after last import",
			src:  "package p;\n\nimport java.util.List;\n\nclass A {}\n",
			want: "package p;\n\nimport java.util.List;\nimport org.slf4j.Logger;\nimport org.slf4j.LoggerFactory;\n\nclass A {}\n",
		},
		{
			name: "after package",
			src:  "package p;\n\nclass A {}\n",
			want: "package p;\n\nimport org.slf4j.Logger;\nimport org.slf4j.LoggerFactory;\n\nclass A {}\n",
		},
		{
			name: "top of file",
			src:  "class A {}\n",
			want: "import org.slf4j.Logger;\nimport org.slf4j.LoggerFactory;\n\nclass A {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parse(t, tt.src)
			edits := Edits(unit, []string{"org.slf4j.LoggerFactory", "org.slf4j.Logger"})
			if len(edits) != 1 {
				t.Fatalf("expected one edit, got %d", len(edits))
			}
			out, err := edit.Apply(unit.Source, edits)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", out, tt.want)
			}
		})
	}
}

func TestEditsNothingMissing(t *testing.T) {
	unit := parse(t, "import org.slf4j.Logger;\n\nclass A {}\n")
	if edits := Edits(unit, []string{"org.slf4j.Logger"}); len(edits) != 0 {
		t.Errorf("expected no edits, got %v", edits)
	}
}
