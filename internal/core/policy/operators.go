package policy

import (
	"fmt"
	"reflect"
	"slices"
)

type Operator func(ctx RequestContext, args []any) (EvalResult, error)

var operators = map[string]Operator{}

func init() {
	operators["And"] = opAnd
	operators["Or"] = opOr
	operators["Not"] = opNot
	operators["Eq"] = opEq
	operators["Contains"] = opContains
	operators["Load"] = opLoad
	operators["IsSet"] = opIsSet
}

func fail(op string, format string, a ...any) (EvalResult, error) {
	err := fmt.Errorf(format, a...)
	return EvalResult{Operator: op, Error: err.Error()}, err
}

func opAnd(ctx RequestContext, args []any) (EvalResult, error) {
	for i, arg := range args {
		evaluated, ok := arg.(bool)
		if !ok {
			return fail("And", "bad argument type for And at index %d: expected bool, got %v", i, reflect.TypeOf(arg))
		}
		if !evaluated {
			return EvalResult{Operator: "And", Result: false}, nil
		}
	}
	return EvalResult{Operator: "And", Result: true}, nil
}

func opOr(ctx RequestContext, args []any) (EvalResult, error) {
	for i, arg := range args {
		evaluated, ok := arg.(bool)
		if !ok {
			return fail("Or", "bad argument type for Or at index %d: expected bool, got %v", i, reflect.TypeOf(arg))
		}
		if evaluated {
			return EvalResult{Operator: "Or", Result: true}, nil
		}
	}
	return EvalResult{Operator: "Or", Result: false}, nil
}

func opNot(ctx RequestContext, args []any) (EvalResult, error) {
	if len(args) != 1 {
		return fail("Not", "bad argument length for Not: expected 1, got %d", len(args))
	}
	evaluated, ok := args[0].(bool)
	if !ok {
		return fail("Not", "bad argument type for Not: expected bool, got %v", reflect.TypeOf(args[0]))
	}
	return EvalResult{Operator: "Not", Result: !evaluated}, nil
}

func opEq(ctx RequestContext, args []any) (EvalResult, error) {
	if len(args) != 2 {
		return fail("Eq", "bad argument length for Eq: expected 2, got %d", len(args))
	}
	return EvalResult{Operator: "Eq", Result: normalize(args[0]) == normalize(args[1])}, nil
}

func opContains(ctx RequestContext, args []any) (EvalResult, error) {
	if len(args) != 2 {
		return fail("Contains", "bad argument length for Contains: expected 2, got %d", len(args))
	}
	list, ok := args[0].([]any)
	if !ok {
		return fail("Contains", "bad argument type for Contains: expected []any, got %v", reflect.TypeOf(args[0]))
	}

	needle := normalize(args[1])
	return EvalResult{
		Operator: "Contains",
		Result: slices.ContainsFunc(list, func(v any) bool {
			return normalize(v) == needle
		}),
	}, nil
}

func opLoad(ctx RequestContext, args []any) (EvalResult, error) {
	if len(args) != 1 {
		return fail("Load", "bad argument length for Load: expected 1, got %d", len(args))
	}
	key, ok := args[0].(string)
	if !ok {
		return fail("Load", "bad argument type for Load: expected string, got %v", reflect.TypeOf(args[0]))
	}

	value, ok := resolveDotNotation(toMap(ctx), key)
	if !ok {
		return fail("Load", "key not found: %s", key)
	}
	return EvalResult{Operator: "Load", Result: value}, nil
}

// IsSet is Load that yields false instead of failing on a missing key
func opIsSet(ctx RequestContext, args []any) (EvalResult, error) {
	if len(args) != 1 {
		return fail("IsSet", "bad argument length for IsSet: expected 1, got %d", len(args))
	}
	key, ok := args[0].(string)
	if !ok {
		return fail("IsSet", "bad argument type for IsSet: expected string, got %v", reflect.TypeOf(args[0]))
	}

	value, ok := resolveDotNotation(toMap(ctx), key)
	set := ok && value != nil && value != "" && value != float64(0)
	return EvalResult{Operator: "IsSet", Result: set}, nil
}
