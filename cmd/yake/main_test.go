package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYakefile = `meta:
  doc: "Project"
  version: "1.0.0"
env:
  - GLOBAL=1
targets:
  base:
    meta: {doc: "base image", type: cmd}
    exec: ["echo base {{meta.version}}"]
  docker2:
    meta: {doc: "second", type: cmd}
    exec: ["echo docker2"]
  docker3:
    meta: {type: group}
    targets:
      mysql2:
        meta: {type: group}
        targets:
          mysqlsub:
            meta: {type: cmd}
            exec: ["echo sub"]
  docker:
    meta: {doc: "docker things", type: group, version: "2.0.0"}
    env: [DOCKER=1]
    targets:
      postgres:
        meta: {doc: "pg", type: cmd, depends: [base, docker2, docker3.mysql2.mysqlsub]}
        exec: ["echo pg {{meta.version}} $GLOBAL $DOCKER"]
  tag:
    meta: {type: cmd}
    exec: ["echo tag {{params.tag}}"]
  broken:
    meta: {type: cmd}
    exec: ["exit 3", "echo never"]
`

func writeYakefile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Yakefile")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_RunScenario(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, stderr := run(t, "-f", path, "--shell", "sh", "docker.postgres")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	want := strings.Join([]string{
		"-- echo base 1.0.0", "base 1.0.0",
		"-- echo docker2", "docker2",
		"-- echo sub", "sub",
		"-- echo pg 2.0.0 $GLOBAL $DOCKER", "pg 2.0.0 1 1",
	}, "\n") + "\n"
	if stdout != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestExecute_RunSubcommandQuiet(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, _ := run(t, "run", "-q", "-f", path, "--shell", "sh", "base")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "base 1.0.0\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestExecute_Parameters(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, _ := run(t, "-q", "-f", path, "--shell", "sh", "-p", "tag=v1", "-p", "tag=v2", "tag")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "tag v2\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	code, _, stderr := run(t, "-f", path, "-p", "novalue", "tag")
	if code != 2 {
		t.Errorf("expected exit 2 for malformed parameter, got %d (%s)", code, stderr)
	}
}

func TestExecute_UnknownTarget(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, stderr := run(t, "-f", path, "--shell", "sh", "nope")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if stdout != "" {
		t.Errorf("nothing may run, got %q", stdout)
	}
	if !strings.Contains(stderr, "available targets: base, docker2, docker3.mysql2.mysqlsub, docker.postgres, tag, broken") {
		t.Errorf("expected target listing, got %q", stderr)
	}
}

func TestExecute_NoTargets(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)
	code, _, stderr := run(t, "-f", path)
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "available targets:") {
		t.Errorf("expected target listing, got %q", stderr)
	}
}

func TestExecute_FailingStep(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, stderr := run(t, "-f", path, "--shell", "sh", "broken")
	if code != 3 {
		t.Errorf("expected the step's exit code 3, got %d", code)
	}
	if strings.Contains(stdout, "never") {
		t.Error("remaining steps must not run")
	}
	if !strings.Contains(stderr, `target "broken": step 1 "exit 3" failed with exit code 3`) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExecute_CycleIsUsageError(t *testing.T) {
	path := writeYakefile(t, `targets:
  a:
    meta: {type: cmd, depends: [b]}
    exec: ["echo a"]
  b:
    meta: {type: cmd, depends: [a]}
    exec: ["echo b"]
`)
	code, stdout, stderr := run(t, "-f", path, "--shell", "sh", "a")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if stdout != "" {
		t.Errorf("nothing may run, got %q", stdout)
	}
	if !strings.Contains(stderr, "dependency cycle: a -> b -> a") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExecute_MissingYakefile(t *testing.T) {
	code, _, _ := run(t, "-f", filepath.Join(t.TempDir(), "Yakefile"), "base")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestExecute_InvalidPolicy(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)
	code, _, _ := run(t, "-f", path, "--policy", "sometimes", "base")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	code, _, _ := run(t, "--no-such-flag")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestExecute_List(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, _ := run(t, "list", "-f", path)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 commands, got %d: %q", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "base") || !strings.HasSuffix(lines[0], "base image") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "docker.postgres") {
		t.Errorf("expected declared order, got %q", lines[3])
	}
}

func TestExecute_TargetNamedLikeSubcommand(t *testing.T) {
	path := writeYakefile(t, `targets:
  list:
    meta: {type: cmd}
    exec: ["echo listing"]
`)

	code, stdout, stderr := run(t, "list", "-f", path)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if strings.Contains(stdout, "listing") {
		t.Errorf("the list subcommand must not run the target, got %q", stdout)
	}
	if !strings.Contains(stderr, "use: yake run list") {
		t.Errorf("expected a hint on stderr, got %q", stderr)
	}

	code, stdout, stderr = run(t, "run", "-f", path, "--shell", "sh", "list")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(stdout, "listing") || strings.Contains(stderr, "shadowed") {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}

	_, stdout, _ = run(t, "--help")
	if !strings.Contains(stdout, `"yake run <target>"`) {
		t.Errorf("expected help to mention yake run, got %q", stdout)
	}
}

func TestExecute_Plan(t *testing.T) {
	path := writeYakefile(t, sampleYakefile)

	code, stdout, _ := run(t, "plan", "-f", path, "docker.postgres")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := "base\n  -- echo base 1.0.0\ndocker2\n  -- echo docker2\n" +
		"docker3.mysql2.mysqlsub\n  -- echo sub\ndocker.postgres\n  -- echo pg 2.0.0 $GLOBAL $DOCKER\n"
	if stdout != want {
		t.Errorf("unexpected plan:\n%s", stdout)
	}

	code, stdout, _ = run(t, "plan", "--levels", "-f", path, "docker.postgres")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "0: base docker2 docker3.mysql2.mysqlsub\n1: docker.postgres\n" {
		t.Errorf("unexpected levels %q", stdout)
	}
}

func TestExecute_PlanIgnoresUnrelatedCycle(t *testing.T) {
	path := writeYakefile(t, `targets:
  ok:
    meta: {type: cmd}
    exec: ["echo ok"]
  a:
    meta: {type: cmd, depends: [b]}
    exec: ["echo a"]
  b:
    meta: {type: cmd, depends: [a]}
    exec: ["echo b"]
`)
	for _, args := range [][]string{
		{"plan", "-f", path, "ok"},
		{"plan", "--levels", "-f", path, "ok"},
	} {
		if code, _, stderr := run(t, args...); code != 0 {
			t.Errorf("%v: expected exit 0, got %d (stderr %q)", args, code, stderr)
		}
	}
	if code, _, _ := run(t, "plan", "--levels", "-f", path, "a"); code != 2 {
		t.Errorf("expected exit 2 for a target on the cycle, got %d", code)
	}
}

func TestExecute_PlanTemplateError(t *testing.T) {
	path := writeYakefile(t, `targets:
  a:
    meta: {type: cmd}
    exec: ["echo {{meta.missing}}"]
`)
	code, _, stderr := run(t, "plan", "-f", path, "a")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, `undefined key "meta.missing"`) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExecute_Version(t *testing.T) {
	code, stdout, _ := run(t, "version", "-o", "json")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if info["version"] == "" {
		t.Error("expected a version")
	}
}
