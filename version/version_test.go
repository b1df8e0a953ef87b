package version

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
	}
}

func TestGetLinkTimeValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	GitBranch = "release"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abc1234" || info.GitBranch != "release" {
		t.Errorf("unexpected vcs info %q %q", info.GitCommit, info.GitBranch)
	}
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected build date %v, got %v", want, info.BuildDate)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected go version %q, got %q", runtime.Version(), info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", info.Platform)
	}
}

func TestGetInvalidBuildTime(t *testing.T) {
	defer saveAndRestore()()
	BuildTime = "not-a-date"
	// Must not panic; the date may still come from embedded VCS settings.
	_ = Get()
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"version only", Info{Version: "1.0.0"}, "1.0.0"},
		{"with commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestString(t *testing.T) {
	info := &Info{
		Version:   "1.0.0",
		GitCommit: "abc1234",
		GitBranch: "feature",
		BuildDate: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		GoVersion: "go1.26.0",
		Platform:  "linux/amd64",
	}
	want := "yake 1.0.0-abc1234 (feature) built 2026-01-15T10:30:00Z go1.26.0 linux/amd64"
	if got := info.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	info.GitBranch = "main"
	if strings.Contains(info.String(), "(main)") {
		t.Error("main branch should be omitted")
	}
}

func TestWrite(t *testing.T) {
	info := &Info{Version: "1.0.0", GoVersion: "go1.26.0", Platform: "linux/amd64"}

	var text bytes.Buffer
	if err := info.Write(&text, "text"); err != nil {
		t.Fatalf("text: %v", err)
	}
	if text.String() != "yake 1.0.0 go1.26.0 linux/amd64\n" {
		t.Errorf("unexpected text %q", text.String())
	}

	var js bytes.Buffer
	if err := info.Write(&js, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["version"] != "1.0.0" || decoded["platform"] != "linux/amd64" {
		t.Errorf("unexpected json %v", decoded)
	}

	var y bytes.Buffer
	if err := info.Write(&y, "yaml"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(y.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if fromYAML["version"] != "1.0.0" {
		t.Errorf("unexpected yaml %v", fromYAML)
	}

	if err := info.Write(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
