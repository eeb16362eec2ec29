package policy

import (
	"context"
	"strings"
	"testing"

	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/afero"
)

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), EngineConfig{Fs: afero.NewMemMapFs(), PoliciesDir: "/none"})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func TestEngine_DefaultEligibility(t *testing.T) {
	engine := newDefaultEngine(t)

	tests := []struct {
		name      string
		task      models.Task
		wantAllow bool
		wantMsg   string
	}{
		{
			name:      "matching context",
			task:      models.Task{ID: "1", Content: "a", Context: models.ContextA},
			wantAllow: true,
		},
		{
			name:    "subtask",
			task:    models.Task{ID: "2", Content: "a", Context: models.ContextA, ParentID: "1"},
			wantMsg: "task 2 is a subtask",
		},
		{
			name:    "completed",
			task:    models.Task{ID: "3", Content: "a", Context: models.ContextA, Completed: true},
			wantMsg: "task 3 is completed",
		},
		{
			name:    "undefined context",
			task:    models.Task{ID: "4", Content: "a", Context: models.ContextUndefined},
			wantMsg: "task 4 has no context",
		},
		{
			name:    "empty context counts as undefined",
			task:    models.Task{ID: "5", Content: "a"},
			wantMsg: "task 5 has no context",
		},
		{
			name:    "other mode",
			task:    models.Task{ID: "6", Content: "a", Context: models.ContextB},
			wantMsg: "task 6 belongs to context-b, not context-a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.Evaluate(context.Background(), tt.task, models.ContextA)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if d.IsAllowed() != tt.wantAllow {
				t.Fatalf("IsAllowed() = %v, want %v (violations %v)", d.IsAllowed(), tt.wantAllow, d.Violations)
			}
			if tt.wantMsg == "" {
				return
			}
			found := false
			for _, v := range d.Violations {
				if v == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("Violations = %v, want %q", d.Violations, tt.wantMsg)
			}
		})
	}
}

func TestEngine_UserPolicyExtendsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/home/.seiton/policies", 0755)
	_ = afero.WriteFile(fs, "/home/.seiton/policies/someday.rego", []byte(`package seiton.policy

import rego.v1

deny contains msg if {
	some label in input.task.labels
	label == "someday"
	msg := sprintf("task %s is parked", [input.task.id])
}
`), 0644)

	engine, err := NewEngine(context.Background(), EngineConfig{Fs: fs, PoliciesDir: "/home/.seiton/policies"})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if got := strings.Join(engine.PolicyNames(), ","); got != "eligibility,someday" {
		t.Errorf("PolicyNames() = %s", got)
	}

	tasks := []models.Task{
		{ID: "1", Content: "a", Context: models.ContextB},
		{ID: "2", Content: "b", Context: models.ContextB, Labels: []string{"someday"}},
		{ID: "3", Content: "c", Context: models.ContextA},
		{ID: "4", Content: "d", Context: models.ContextB},
	}
	kept, rejected, err := engine.Filter(context.Background(), tasks, models.ContextB)
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(kept) != 2 || kept[0].ID != "1" || kept[1].ID != "4" {
		t.Errorf("kept = %v, want [1 4]", kept)
	}
	if len(rejected) != 2 || rejected[0].Violations[0] != "task 2 is parked" {
		t.Errorf("rejected = %+v", rejected)
	}
}

func TestEngine_SkipDefaultsAllowsEverything(t *testing.T) {
	engine, err := NewEngine(context.Background(), EngineConfig{Fs: afero.NewMemMapFs(), SkipDefaults: true})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	d, err := engine.Evaluate(context.Background(), models.Task{ID: "1", ParentID: "x"}, models.ContextA)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.IsAllowed() || d.DecisionID == "" {
		t.Errorf("decision = %+v, want allow with id", d)
	}
}

func TestEngine_InvalidUserPolicy(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/p/bad.rego", []byte("package seiton.policy\n\ndeny contains"), 0644)

	if _, err := NewEngine(context.Background(), EngineConfig{Fs: fs, PoliciesDir: "/p"}); err == nil {
		t.Fatal("NewEngine() error = nil, want compile error")
	}
}

func TestValidatePolicy(t *testing.T) {
	if err := ValidatePolicy(context.Background(), "package x\n\nimport rego.v1\n\nallow if true\n"); err != nil {
		t.Errorf("ValidatePolicy(valid) error = %v", err)
	}
	if err := ValidatePolicy(context.Background(), "package"); err == nil {
		t.Error("ValidatePolicy(invalid) error = nil")
	}
}
