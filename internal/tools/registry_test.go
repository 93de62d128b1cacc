package tools

import (
	"context"
	"errors"
	"testing"
)

func testTool(name string) *Tool {
	return &Tool{
		Name:        name,
		Description: "test tool",
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			return "ok", nil
		},
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d tools", reg.Count())
	}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry(nil)

	if err := reg.Register(testTool("email_tool")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := reg.Lookup("email_tool")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Name != "email_tool" {
		t.Errorf("got name %q, want %q", got.Name, "email_tool")
	}
}

func TestLookupMissIsError(t *testing.T) {
	reg := NewRegistry(nil)

	tool, err := reg.Lookup("nope")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("want ErrToolNotFound, got %v", err)
	}
	if tool != nil {
		t.Error("Lookup miss must not return a tool")
	}
}

func TestRegisterDuplicateKeepsFirst(t *testing.T) {
	reg := NewRegistry(nil)

	first := testTool("dupe")
	first.Description = "the original"
	if err := reg.Register(first); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	second := testTool("dupe")
	second.Description = "the impostor"
	err := reg.Register(second)
	if !errors.Is(err, ErrToolAlreadyRegistered) {
		t.Fatalf("want ErrToolAlreadyRegistered, got %v", err)
	}

	got, err := reg.Lookup("dupe")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Description != "the original" {
		t.Error("duplicate registration overwrote the first tool")
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry(nil)

	tests := []struct {
		name    string
		tool    *Tool
		wantErr error
	}{
		{
			name:    "empty name",
			tool:    &Tool{Execute: func(ctx context.Context, params map[string]any) (string, error) { return "", nil }},
			wantErr: ErrToolNameEmpty,
		},
		{
			name:    "nil execute",
			tool:    &Tool{Name: "broken"},
			wantErr: ErrToolExecuteNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tool)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry(nil)
	for _, n := range []string{"search_tool", "email_tool", "order_tool"} {
		if err := reg.Register(testTool(n)); err != nil {
			t.Fatalf("Register %s: %v", n, err)
		}
	}

	names := reg.Names()
	want := []string{"email_tool", "order_tool", "search_tool"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestExecuteValidatesRequiredParams(t *testing.T) {
	reg := NewRegistry(nil)
	tool := testTool("strict_tool")
	tool.Schema = Schema{Required: []string{"input"}}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := reg.Execute(context.Background(), "strict_tool", map[string]any{})
	if !errors.Is(err, ErrMissingRequiredArg) {
		t.Fatalf("want ErrMissingRequiredArg, got %v", err)
	}

	res, err := reg.Execute(context.Background(), "strict_tool", map[string]any{"input": "x"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsSuccess() || res.Output != "ok" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExecuteCapturesToolError(t *testing.T) {
	reg := NewRegistry(nil)
	boom := errors.New("smtp connect refused")
	reg.MustRegister(&Tool{
		Name: "failing_tool",
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			return "", boom
		},
	})

	res, err := reg.Execute(context.Background(), "failing_tool", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want tool error propagated, got %v", err)
	}
	if res.IsSuccess() {
		t.Error("failed execution reported success")
	}
	if res.ToolName != "failing_tool" {
		t.Errorf("result tool name = %q", res.ToolName)
	}
}
