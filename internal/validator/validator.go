// Package validator implements the surface-level checker described in
// spec.md §4.2: a pattern-based scanner over the raw script text, never an
// AST. Validation is advisory — it narrows the obviously unsafe and
// malformed, it does not prove absence of misbehaviour.
package validator

import (
	"fmt"
	"strings"

	"github.com/scriptlab/engine/internal/jsruntime"
	"github.com/scriptlab/engine/internal/params"
)

// Result is the outcome of Validate: { valid, errors[], warnings[] }
// (spec.md §4.2 "Outcome").
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Pattern is a named dangerous-construct check. Custom patterns may be
// appended or removed at runtime, keyed by Message (spec.md §4.2).
type Pattern struct {
	Message string
	match   func(masked string) bool
}

const (
	maxLineLength    = 1000
	maxNestingDepth  = 10
	maxTotalLength   = 100000
	maxOptionsLength = 100
)

// Validate runs every check in spec.md §4.2 over source and returns the
// aggregated result.
func Validate(source string, extra []Pattern) Result {
	res := Result{Valid: true}

	if len(source) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "source is empty")
		return res
	}

	masked := maskStringsAndComments(source)

	if !strings.Contains(masked, "export const io") {
		res.Errors = append(res.Errors, "missing required 'export const io' declaration")
	}
	if !strings.Contains(masked, "export default") {
		res.Errors = append(res.Errors, "missing required 'export default' declaration")
	}

	if err := checkQuoteBalance(source); err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	if err := checkBraceBalance(masked); err != nil {
		res.Errors = append(res.Errors, err.Error())
	}

	for _, p := range currentPatterns() {
		if p.match(masked) {
			res.Errors = append(res.Errors, p.Message)
		}
	}
	for _, p := range extra {
		if p.match(masked) {
			res.Errors = append(res.Errors, p.Message)
		}
	}

	res.Warnings = append(res.Warnings, structuralWarnings(source)...)

	if ioErrs, ioWarns := validateIOSchemaText(source); len(ioErrs) > 0 || len(ioWarns) > 0 {
		res.Errors = append(res.Errors, ioErrs...)
		res.Warnings = append(res.Warnings, ioWarns...)
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func checkQuoteBalance(source string) error {
	var inSingle, inBlockComment, inLineComment bool
	var inDouble, inTemplate bool
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlockComment = false
				i++
			}
		case inSingle:
			if c == '\\' {
				i++
			} else if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '\\' {
				i++
			} else if c == '"' {
				inDouble = false
			}
		case inTemplate:
			if c == '\\' {
				i++
			} else if c == '`' {
				inTemplate = false
			}
		default:
			if c == '/' && i+1 < len(source) && source[i+1] == '/' {
				inLineComment = true
				i++
			} else if c == '/' && i+1 < len(source) && source[i+1] == '*' {
				inBlockComment = true
				i++
			} else if c == '\'' {
				inSingle = true
			} else if c == '"' {
				inDouble = true
			} else if c == '`' {
				inTemplate = true
			}
		}
	}
	if inSingle || inDouble || inTemplate {
		return fmt.Errorf("unbalanced quote in source")
	}
	return nil
}

func checkBraceBalance(masked string) error {
	depth := 0
	for _, c := range masked {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced braces: unexpected closing brace")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced braces: %d unclosed", depth)
	}
	return nil
}

func structuralWarnings(source string) []string {
	var warnings []string

	if len(source) > maxTotalLength {
		warnings = append(warnings, fmt.Sprintf("source length %d exceeds %d characters", len(source), maxTotalLength))
	}

	depth := 0
	maxDepth := 0
	for _, c := range source {
		if c == '{' {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		} else if c == '}' {
			depth--
		}
	}
	if maxDepth > maxNestingDepth {
		warnings = append(warnings, fmt.Sprintf("nesting depth %d exceeds %d", maxDepth, maxNestingDepth))
	}

	for i, line := range strings.Split(source, "\n") {
		if len(line) > maxLineLength && !strings.Contains(line, "options:") {
			warnings = append(warnings, fmt.Sprintf("line %d exceeds %d characters", i+1, maxLineLength))
		}
	}

	return warnings
}

// validateIOSchemaText extracts the io object literal via a balanced-brace
// scan, evaluates it, and runs the same kind/range checks the planner's
// introspector applies (spec.md §4.2 "IO schema sub-validation").
func validateIOSchemaText(source string) (errs []string, warnings []string) {
	snippet, ok := extractIOObjectText(source)
	if !ok {
		return nil, nil
	}

	vm, obj, err := jsruntime.EvalObjectLiteral(snippet)
	if err != nil {
		return []string{fmt.Sprintf("io schema evaluation failed: %v", err)}, nil
	}

	for _, member := range []string{"inputs", "outputs"} {
		v := obj.Get(member)
		if v == nil {
			errs = append(errs, fmt.Sprintf("io.%s is missing", member))
			continue
		}
		sub := v.ToObject(vm)
		if sub == nil {
			continue
		}
		for _, key := range sub.Keys() {
			raw := sub.Get(key).Export()
			def, err := params.Normalise(raw)
			if err != nil {
				errs = append(errs, fmt.Sprintf("io.%s.%s: %v", member, key, err))
				continue
			}
			if !params.ValidKind(def.Kind) {
				errs = append(errs, fmt.Sprintf("io.%s.%s: unknown kind %q", member, key, def.Kind))
			}
			if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
				errs = append(errs, fmt.Sprintf("io.%s.%s: min greater than max", member, key))
			}
			if len(def.Options) > maxOptionsLength {
				warnings = append(warnings, fmt.Sprintf("io.%s.%s: options list has %d entries", member, key, len(def.Options)))
			}
		}
	}
	return errs, warnings
}

// extractIOObjectText finds "export const io = {" (or its transformed "var
// io =" form) and scans forward to the matching closing brace, ignoring
// braces inside strings and comments (spec.md §4.2).
func extractIOObjectText(source string) (string, bool) {
	idx := strings.Index(source, "var io =")
	marker := strings.Index(source, "export const io")
	if marker >= 0 {
		idx = marker
	}
	if idx < 0 {
		return "", false
	}
	braceStart := strings.IndexByte(source[idx:], '{')
	if braceStart < 0 {
		return "", false
	}
	start := idx + braceStart

	depth := 0
	inSingle, inDouble, inTemplate, inLine, inBlock := false, false, false, false, false
	for i := start; i < len(source); i++ {
		c := source[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
			}
		case inBlock:
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				inBlock = false
				i++
			}
		case inSingle:
			if c == '\\' {
				i++
			} else if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '\\' {
				i++
			} else if c == '"' {
				inDouble = false
			}
		case inTemplate:
			if c == '\\' {
				i++
			} else if c == '`' {
				inTemplate = false
			}
		default:
			switch {
			case c == '/' && i+1 < len(source) && source[i+1] == '/':
				inLine = true
				i++
			case c == '/' && i+1 < len(source) && source[i+1] == '*':
				inBlock = true
				i++
			case c == '\'':
				inSingle = true
			case c == '"':
				inDouble = true
			case c == '`':
				inTemplate = true
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					return source[start : i+1], true
				}
			}
		}
	}
	return "", false
}
