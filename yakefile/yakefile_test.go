package yakefile

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/target"
)

func TestLoad_Sample(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "Yakefile"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.Doc != "Sample project" {
		t.Errorf("expected root doc, got %q", def.Doc)
	}
	if !reflect.DeepEqual(def.Meta, map[string]string{"version": "1.0.0"}) {
		t.Errorf("unexpected root meta %v", def.Meta)
	}
	if !reflect.DeepEqual(def.Env, []string{"GLOBAL=1"}) {
		t.Errorf("unexpected root env %v", def.Env)
	}

	var names []string
	for _, c := range def.Children {
		names = append(names, c.Name)
	}
	if want := []string{"base", "docker2", "docker3", "docker"}; !reflect.DeepEqual(names, want) {
		t.Errorf("expected declaration order %v, got %v", want, names)
	}

	docker := def.Children[3]
	if docker.Type != target.TypeGroup || docker.Meta["version"] != "2.0.0" {
		t.Errorf("unexpected docker group %+v", docker)
	}
	if _, ok := docker.Meta["doc"]; ok {
		t.Error("doc must not be copied into metadata")
	}
	postgres := docker.Children[0]
	wantDeps := []string{"base", "docker2", "docker3.mysql2.mysqlsub"}
	if !reflect.DeepEqual(postgres.Depends, wantDeps) {
		t.Errorf("expected depends %v, got %v", wantDeps, postgres.Depends)
	}
	if postgres.Meta != nil {
		t.Errorf("expected no free metadata on postgres, got %v", postgres.Meta)
	}

	tree, err := target.Build(def)
	if err != nil {
		t.Fatalf("sample must build: %v", err)
	}
	if got := tree.CommandPaths(); len(got) != 4 {
		t.Errorf("expected 4 commands, got %v", got)
	}
}

func TestParse_OrderPreserved(t *testing.T) {
	def, err := Parse([]byte(`
targets:
  zeta: {meta: {type: cmd}}
  alpha: {meta: {type: cmd}}
  mid: {meta: {type: cmd}}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, c := range def.Children {
		names = append(names, c.Name)
	}
	if want := []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestParse_TypeInference(t *testing.T) {
	def, err := Parse([]byte(`
targets:
  plain:
    exec: [ls]
  nested:
    targets:
      leaf: {exec: [pwd]}
  empty:
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	types := map[string]string{}
	for _, c := range def.Children {
		types[c.Name] = c.Type
	}
	want := map[string]string{"plain": "cmd", "nested": "group", "empty": "cmd"}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("expected %v, got %v", want, types)
	}
}

func TestParse_NonStringScalarsKeptVerbatim(t *testing.T) {
	def, err := Parse([]byte(`
meta:
  version: 1.10
targets:
  a:
    meta: {type: cmd, retries: 3}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Meta["version"] != "1.10" {
		t.Errorf("expected verbatim version 1.10, got %q", def.Meta["version"])
	}
	if def.Children[0].Meta["retries"] != "3" {
		t.Errorf("expected retries 3, got %v", def.Children[0].Meta)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "targets: [", "malformed YAML"},
		{"empty", "", "empty document"},
		{"top level list", "- a\n- b\n", "top level must be a mapping"},
		{"targets list", "targets: [a, b]\n", "targets must be a mapping"},
		{"meta value list", "targets:\n  a:\n    meta: {type: cmd, owner: [x]}\n", "a.meta.owner must be a string"},
		{"depends scalar map", "targets:\n  a:\n    meta: {type: cmd, depends: {x: y}}\n", "a.meta.depends must be a list"},
		{"nested targets list", "targets:\n  g:\n    targets: [x]\n", "g.targets must be a mapping"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", errors.CodeOf(err))
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestParse_ErrorLine(t *testing.T) {
	_, err := Parse([]byte("targets:\n  a:\n    meta: {type: cmd, owner: [x]}\n"))
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected line number in %q", err.Error())
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "Yakefile"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoad_ErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Yakefile")
	if err := os.WriteFile(path, []byte("targets: [x]\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected error naming %s, got %v", path, err)
	}
}

func TestFind(t *testing.T) {
	empty := t.TempDir()
	withYml := t.TempDir()
	if err := os.WriteFile(filepath.Join(withYml, "Yakefile.yml"), []byte("targets: {}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Find(empty, withYml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(withYml, "Yakefile.yml") {
		t.Errorf("unexpected path %q", got)
	}

	if _, err := Find(empty); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestFind_PrefersPlainName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Yakefile", "Yakefile.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("targets: {}\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := Find(dir)
	if err != nil || filepath.Base(got) != "Yakefile" {
		t.Errorf("expected Yakefile, got %q (%v)", got, err)
	}
}
