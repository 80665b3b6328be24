package xml2xlsx

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	notationBegin = "${"
	notationEnd   = "}"
)

// evaluator evaluates ${...} expressions embedded in cell text.
type evaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

func (e *evaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

func (e *evaluator) evaluate(expression string, env map[string]any) (any, error) {
	program, err := e.compile(expression, env)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

// evaluateCellValue evaluates all ${...} segments of a cell value. A value
// that is exactly one expression keeps the evaluated value's type; mixed
// text concatenates stringified results.
func (e *evaluator) evaluateCellValue(value string, env map[string]any) (any, error) {
	segments := splitExpressions(value)
	if len(segments) == 1 && segments[0].isExpression {
		return e.evaluate(segments[0].text, env)
	}
	var b strings.Builder
	for _, seg := range segments {
		if !seg.isExpression {
			b.WriteString(seg.text)
			continue
		}
		result, err := e.evaluate(seg.text, env)
		if err != nil {
			return nil, err
		}
		if result != nil {
			fmt.Fprintf(&b, "%v", result)
		}
	}
	return b.String(), nil
}

// expressionSegment is a part of a cell value: literal text or the content
// of a ${...} expression.
type expressionSegment struct {
	isExpression bool
	text         string
}

// splitExpressions splits a cell value into literal and expression segments.
// "Total: ${sum}" → [{false, "Total: "}, {true, "sum"}]
func splitExpressions(value string) []expressionSegment {
	var segments []expressionSegment
	for {
		start := strings.Index(value, notationBegin)
		if start < 0 {
			break
		}
		end := strings.Index(value[start+len(notationBegin):], notationEnd)
		if end < 0 {
			break
		}
		if start > 0 {
			segments = append(segments, expressionSegment{text: value[:start]})
		}
		inner := value[start+len(notationBegin) : start+len(notationBegin)+end]
		segments = append(segments, expressionSegment{isExpression: true, text: strings.TrimSpace(inner)})
		value = value[start+len(notationBegin)+end+len(notationEnd):]
	}
	if value != "" || len(segments) == 0 {
		segments = append(segments, expressionSegment{text: value})
	}
	return segments
}

// hasExpression reports whether a cell value contains a ${...} expression.
func hasExpression(value string) bool {
	start := strings.Index(value, notationBegin)
	return start >= 0 && strings.Contains(value[start+len(notationBegin):], notationEnd)
}
