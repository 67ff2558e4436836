package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunCreateAppendReadStats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"create", "--dir", dir, "--name", "j"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("create: code=%d stderr=%s", code, stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"append", "--dir", dir, "--name", "j", "--data", "hello"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("append: code=%d stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "appended 1") {
		t.Errorf("unexpected append output: %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"stats", "--dir", dir, "--name", "j"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("stats: code=%d stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "num_entries=1") {
		t.Errorf("unexpected stats output: %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"read", "--dir", dir, "--name", "j", "--start", "1"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("read: code=%d stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "seqnum=1") {
		t.Errorf("unexpected read output: %q", stdout.String())
	}
}

func TestRunAppendFromStdin(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"create", "--dir", dir, "--name", "j"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("create: code=%d", code)
	}

	stdout.Reset()
	if code := run([]string{"append", "--dir", dir, "--name", "j"}, strings.NewReader("from stdin"), &stdout, &stderr); code != 0 {
		t.Fatalf("append: code=%d stderr=%s", code, stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"bogus"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRunNoArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("version: code=%d stderr=%s", code, stderr.String())
	}
	if stdout.String() == "" {
		t.Error("expected version output")
	}
}

func TestRunRollbackAndPurge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	run([]string{"create", "--dir", dir, "--name", "j"}, strings.NewReader(""), &stdout, &stderr)
	for i := 0; i < 5; i++ {
		stdout.Reset()
		if code := run([]string{"append", "--dir", dir, "--name", "j", "--data", "x"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
			t.Fatalf("append %d: code=%d stderr=%s", i, code, stderr.String())
		}
	}

	stdout.Reset()
	if code := run([]string{"rollback", "--dir", dir, "--name", "j", "--seqnum", "4"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("rollback: code=%d stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "removed 1") {
		t.Errorf("unexpected rollback output: %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"purge", "--dir", dir, "--name", "j", "--seqnum", "2"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("purge: code=%d stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "removed 1") {
		t.Errorf("unexpected purge output: %q", stdout.String())
	}
}
