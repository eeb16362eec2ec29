package policy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/seiton/models"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/spf13/afero"
)

// DefaultPolicyPackage is the Rego package queried for deny rules.
const DefaultPolicyPackage = "seiton.policy"

// Engine evaluates the eligibility policies. The query is compiled once;
// evaluation is local and safe for concurrent use.
type Engine struct {
	policies      []*PolicyFile
	policyPackage string
	query         rego.PreparedEvalQuery
}

// EngineConfig holds configuration for creating an Engine.
type EngineConfig struct {
	// PoliciesDir holds user .rego files loaded on top of the defaults.
	PoliciesDir string

	// PolicyPackage is the Rego package to query.
	// If empty, defaults to "seiton.policy"
	PolicyPackage string

	// Fs is the filesystem to load policies from. Nil means the OS.
	Fs afero.Fs

	// SkipDefaults drops the built-in eligibility rules.
	SkipDefaults bool
}

// Rejection records why a task was left out of a session.
type Rejection struct {
	Task       models.Task
	Violations []string
}

// NewEngine loads the default and user policies and compiles them.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	var policies []*PolicyFile
	if !cfg.SkipDefaults {
		defaults, err := DefaultPolicies()
		if err != nil {
			return nil, err
		}
		policies = append(policies, defaults...)
	}

	user, err := NewLoader(cfg.Fs, cfg.PoliciesDir).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	policies = append(policies, user...)

	return NewEngineWithPolicies(ctx, cfg.PolicyPackage, policies)
}

// NewEngineWithPolicies compiles an engine from explicit policy sources.
func NewEngineWithPolicies(ctx context.Context, pkg string, policies []*PolicyFile) (*Engine, error) {
	if pkg == "" {
		pkg = DefaultPolicyPackage
	}

	opts := []func(*rego.Rego){rego.Query(fmt.Sprintf("data.%s.deny", pkg))}
	for _, p := range policies {
		opts = append(opts, rego.Module(p.Path, p.Content))
	}

	query, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile policies: %w", err)
	}

	return &Engine{policies: policies, policyPackage: pkg, query: query}, nil
}

// PolicyNames returns the names of all loaded policies.
func (e *Engine) PolicyNames() []string {
	names := make([]string, len(e.policies))
	for i, p := range e.policies {
		names[i] = p.Name
	}
	return names
}

// Evaluate decides whether t may enter a session in mode.
func (e *Engine) Evaluate(ctx context.Context, t models.Task, mode models.Context) (*Decision, error) {
	rs, err := e.query.Eval(ctx, rego.EvalInput(NewInput(t, mode).asMap()))
	if err != nil {
		return nil, fmt.Errorf("evaluate task %s: %w", t.ID, err)
	}

	var violations []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			set, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, item := range set {
				if s, ok := item.(string); ok {
					violations = append(violations, s)
				}
			}
		}
	}
	sort.Strings(violations)

	decision := &Decision{
		DecisionID:  uuid.NewString(),
		TaskID:      t.ID,
		Mode:        string(mode),
		Result:      ResultAllow,
		EvaluatedAt: time.Now().UTC(),
	}
	if len(violations) > 0 {
		decision.Result = ResultDeny
		decision.Violations = violations
	}
	return decision, nil
}

// Filter keeps the tasks the policies allow, preserving order.
func (e *Engine) Filter(ctx context.Context, tasks []models.Task, mode models.Context) ([]models.Task, []Rejection, error) {
	kept := make([]models.Task, 0, len(tasks))
	var rejected []Rejection
	for _, t := range tasks {
		d, err := e.Evaluate(ctx, t, mode)
		if err != nil {
			return nil, nil, err
		}
		if d.IsAllowed() {
			kept = append(kept, t)
			continue
		}
		rejected = append(rejected, Rejection{Task: t, Violations: d.Violations})
	}
	return kept, rejected, nil
}

// ValidatePolicy checks if a policy has valid Rego syntax.
func ValidatePolicy(ctx context.Context, content string) error {
	_, err := rego.New(
		rego.Query("data"),
		rego.Module("validation.rego", content),
	).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	return nil
}
