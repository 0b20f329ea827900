package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDocCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doc", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("doc --help failed: %v", err)
	}

	out := buf.String()
	for _, sub := range []string{"create", "list", "show", "status", "pin"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestDocCreateCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doc", "create", "--title", "x"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when required flags are missing")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("expected missing-flag error, got: %v", err)
	}
}

func TestDocCreateCmd_BadStartDate(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"doc", "create",
		"--actor", "alice",
		"--title", "Q1 report",
		"--start", "03/15/2026",
		"--end", "2026-04-15",
	})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for malformed --start")
	}
	if !strings.Contains(err.Error(), "--start") {
		t.Errorf("expected error to name --start, got: %v", err)
	}
}

func TestDocShowCmd_RequiresID(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doc", "show"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when id argument is missing")
	}
}

func TestDocStatusCmd_RequiresActor(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doc", "status", "doc-abc12", "COMPLETED"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when --actor is missing")
	}
	if !strings.Contains(err.Error(), "actor") {
		t.Errorf("expected missing-actor error, got: %v", err)
	}
}

func TestDocStatusCmd_UnknownStatus(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"doc", "status", "doc-abc12", "SHIPPED", "--actor", "alice"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if !strings.Contains(err.Error(), "SHIPPED") {
		t.Errorf("expected error to name the bad status, got: %v", err)
	}
}
