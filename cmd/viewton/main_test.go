package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("cannot write %s: %v", name, err)
	}
	return path
}

func TestBuildCommand(t *testing.T) {
	path := writeFile(t, "users.yaml", `
page: 1
filters:
  - field: name
    op: eq
    value: john
    ignore_case: true
sort:
  - field: age
    desc: true
`)

	got, err := execute(t, "build", "-f", path, "-o", "url", "--base-url", "http://localhost:8080/api/users", "--log-level", "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "http://localhost:8080/api/users?page=1&name=%5Ejohn&-age=sorting\n"
	if got != expected {
		t.Fatalf("expected `%s`, got `%s`", expected, got)
	}
}

func TestScriptCommand(t *testing.T) {
	path := writeFile(t, "users.lua", `
function build_query(q)
  q:param("age"):between(18, 30):count()
end
`)

	got, err := execute(t, "script", "-f", path, "-o", "query", "--log-level", "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "age=18-30&count=true\n"
	if got != expected {
		t.Fatalf("expected `%s`, got `%s`", expected, got)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	path := writeFile(t, "users.yaml", "page: 1\n")

	if _, err := execute(t, "build", "-f", path, "-o", "xml", "--log-level", "error"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
