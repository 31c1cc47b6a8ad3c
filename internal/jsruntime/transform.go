// Package jsruntime embeds an ECMAScript host (goja) so the engine can
// introspect and execute the two-export script shape spec.md §6 describes
// without a JavaScript runtime outside the Go process. goja requires
// single-goroutine access to any one *goja.Runtime, which matches the
// engine's single-threaded cooperative scheduling model (spec.md §5)
// exactly: one runtime is created per top-level call (and one per nested
// importScript invocation), never shared across goroutines.
package jsruntime

import "regexp"

var (
	exportConstIORe = regexp.MustCompile(`export\s+const\s+io\b`)
	exportDefaultRe = regexp.MustCompile(`export\s+default\b`)
)

// TransformExports rewrites the two recognised export statements into plain
// var declarations goja can execute directly, the way the spec's reference
// introspector reads the same two declarations textually (spec.md §4.7).
// "export const io = {...}" becomes "var io = {...}"; both
// "export default async function f(...) {...}" and
// "export default async (...) => {...}" become "var __default__ = async ...".
func TransformExports(source string) string {
	out := exportConstIORe.ReplaceAllString(source, "var io")
	out = exportDefaultRe.ReplaceAllString(out, "var __default__ =")
	return out
}

// importScriptCallRe matches importScript("id") / importScript('id') call
// sites with permissive whitespace, per spec.md §6.
var importScriptCallRe = regexp.MustCompile(`importScript\(\s*(['"])([^'"]*)\1\s*\)`)

// ExtractImportIDs scans source for importScript("…")/importScript('…') call
// sites and returns the declared dependency identifiers in first-seen order,
// deduplicated (spec.md §4.7 "scans the source for call sites ... to
// enumerate declared dependencies").
func ExtractImportIDs(source string) []string {
	matches := importScriptCallRe.FindAllStringSubmatch(source, -1)
	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := m[2]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
