package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestQuit(t *testing.T) {
	for input, want := range map[string]bool{"bye": true, "Exit": true, "quit": true, "bye bye": false, "": false} {
		if got := quit(input); got != want {
			t.Errorf("quit(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewLibrary_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewLibrary() with a duplicate name did not panic")
		}
	}()
	f := markdownFunc("Twice", "", nil, nil, func(map[string]any) (string, error) { return "", nil })
	NewLibrary([]Function{f, f})
}

func TestExpert_Call(t *testing.T) {
	e := &Expert{Name: "Idle"}
	tests := []struct {
		args map[string]any
		want string
	}{
		{map[string]any{}, "missing argument"},
		{map[string]any{"question": 1}, "not a string"},
		{map[string]any{"question": "hello?"}, "is not started"},
	}
	for _, tt := range tests {
		resp := e.Call(context.Background(), "7", tt.args)
		msg, _ := resp.Response["error"].(string)
		if resp.ID != "7" || resp.Name != "Idle" || !strings.Contains(msg, tt.want) {
			t.Errorf("Call(%v) = %s %s %q, want 7 Idle %q", tt.args, resp.ID, resp.Name, msg, tt.want)
		}
	}
}

func TestAgent_RunBye(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader("\n  bye\nnever asked\n"))
	if err := a.loop(context.Background(), "", " "); err != nil {
		t.Fatalf("loop() error = %v", err)
	}
	if got := strings.Count(out.String(), prompt); got != 4 {
		t.Errorf("prompts = %d, want 4 in %q", got, out.String())
	}
}
