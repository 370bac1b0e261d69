package policy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
)

// Version is the only policy document version this engine understands
const Version = "2026-01-01"

//go:embed default_policy.json
var defaultPolicyJSON []byte

// Engine evaluates actions against a policy document
type Engine struct {
	doc Document
}

// NewEngine validates the document and returns an engine for it
func NewEngine(doc Document) (*Engine, error) {
	if _, ok := doc.Versions[Version]; !ok {
		return nil, fmt.Errorf("policy %q: unsupported version, want %s", doc.Name, Version)
	}
	return &Engine{doc: doc}, nil
}

// ParseDocument decodes a JSON policy document
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse policy document: %w", err)
	}
	return doc, nil
}

// Default returns an engine loaded with the built-in access rules
func Default() (*Engine, error) {
	doc, err := ParseDocument(defaultPolicyJSON)
	if err != nil {
		return nil, err
	}
	return NewEngine(doc)
}

// Evaluate runs the "*" statements and the action's statements
func (e *Engine) Evaluate(ctx RequestContext, action string) (Conclusion, error) {
	policy := e.doc.Versions[Version]

	conclusion := Unset
	for _, key := range []string{"*", action} {
		for _, stmt := range policy.Statements[key] {
			result, err := Eval(ctx, stmt.Condition)
			if err != nil {
				log.Printf("⚠️ Policy %s: statement for %s failed: %v", e.doc.Name, key, err)
				continue
			}
			if result.Result == true {
				conclusion = conclusion.Or(ParseConclusion(stmt.Effect))
			}
		}
	}
	return conclusion, nil
}

// Allowed summarizes the conclusion, falling back to the action default
// (deny when the document has none).
func (e *Engine) Allowed(ctx RequestContext, action string) bool {
	conclusion, err := e.Evaluate(ctx, action)
	if err != nil {
		return false
	}
	switch conclusion {
	case Allow:
		return true
	case Deny:
		return false
	}
	return e.doc.Versions[Version].Defaults[action]
}

// Eval evaluates a single expression tree
func Eval(ctx RequestContext, expr Expr) (EvalResult, error) {
	if expr.Const != nil {
		return EvalResult{Operator: "Const", Result: expr.Const}, nil
	}

	args := make([]any, 0, len(expr.Args))
	for _, arg := range expr.Args {
		result, err := Eval(ctx, arg)
		if err != nil {
			return EvalResult{Operator: expr.Operator, Error: err.Error()}, err
		}
		args = append(args, result.Result)
	}

	if operatorFunc, exists := operators[expr.Operator]; exists {
		return operatorFunc(ctx, args)
	}

	return fail(expr.Operator, "unknown operator: %s", expr.Operator)
}
