package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestMetricsCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"metrics", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("metrics --help failed: %v", err)
	}

	out := buf.String()
	for _, flag := range []string{"--created-by", "--team", "--period-days"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected help to mention %q, got: %s", flag, out)
		}
	}
}

func TestMetricsCmd_RequiresScope(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"metrics"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without a scope")
	}
	if !strings.Contains(err.Error(), "--created-by or --team") {
		t.Errorf("expected scope error, got: %v", err)
	}
}
