package effective

import (
	stderrors "errors"
	"testing"

	"github.com/kbukum/yake/errors"
)

func testScope() Scope {
	return Scope{
		Meta:   map[string]string{"version": "1.0.0", "tricky": "{{meta.version}}"},
		Env:    map[string]string{"HOME": "/home/yake"},
		Params: map[string]string{"tag": "latest"},
		Path:   "docker.postgres",
		Name:   "postgres",
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no placeholders", "echo hello", "echo hello"},
		{"meta", "echo {{meta.version}}", "echo 1.0.0"},
		{"whitespace trimmed", "echo {{  meta.version }}", "echo 1.0.0"},
		{"env", "ls {{env.HOME}}", "ls /home/yake"},
		{"params", "docker pull pg:{{params.tag}}", "docker pull pg:latest"},
		{"target path", "echo {{target.path}}", "echo docker.postgres"},
		{"target name", "echo {{target.name}}", "echo postgres"},
		{"adjacent", "{{meta.version}}{{params.tag}}", "1.0.0latest"},
		{"no rescan", "echo {{meta.tricky}}", "echo {{meta.version}}"},
		{"lone braces", "echo } { }}", "echo } { }}"},
		{"empty string", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Expand(tc.in, testScope())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		key    string
		reason TemplateReason
	}{
		{"undefined meta", "echo {{meta.nope}}", "meta.nope", UndefinedKey},
		{"unknown namespace", "echo {{secret.x}}", "secret.x", UndefinedKey},
		{"no namespace", "echo {{version}}", "version", UndefinedKey},
		{"empty placeholder", "echo {{ }}", "", UndefinedKey},
		{"unknown target field", "echo {{target.doc}}", "target.doc", UndefinedKey},
		{"missing param", "echo {{params.other}}", "params.other", UndefinedKey},
		{"unterminated", "echo {{meta.version", "meta.version", Unterminated},
		{"unterminated after valid", "{{meta.version}} {{", "", Unterminated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Expand(tc.in, testScope())
			var terr *TemplateError
			if !stderrors.As(err, &terr) {
				t.Fatalf("expected TemplateError, got %v", err)
			}
			if terr.Reason != tc.reason {
				t.Errorf("expected reason %v, got %v", tc.reason, terr.Reason)
			}
			if terr.Key != tc.key {
				t.Errorf("expected key %q, got %q", tc.key, terr.Key)
			}
			if terr.Template != tc.in {
				t.Errorf("expected template %q, got %q", tc.in, terr.Template)
			}
			if !errors.Is(err, errors.ErrCodeTemplate) {
				t.Errorf("expected TEMPLATE_ERROR, got %v", errors.CodeOf(err))
			}
		})
	}
}

func TestExpand_NilParams(t *testing.T) {
	_, err := Expand("{{params.x}}", Scope{})
	if err == nil {
		t.Fatal("expected error for missing params")
	}
}
