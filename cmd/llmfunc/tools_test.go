package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestToolsCmdPrintsAllDescriptors(t *testing.T) {
	cmd := newToolsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("tools command returned error: %v", err)
	}

	var descriptors []map[string]any
	if err := json.Unmarshal(out.Bytes(), &descriptors); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	names := map[string]bool{}
	for _, d := range descriptors {
		fn := d["function"].(map[string]any)
		names[fn["name"].(string)] = true
	}
	for _, want := range []string{"current_time", "add", "convert_temperature"} {
		if !names[want] {
			t.Fatalf("missing tool %s in output %v", want, names)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("version command returned error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "llmfunc ") {
		t.Fatalf("output = %q", out.String())
	}
}
