package jsruntime

import "testing"

func TestTransformExportsRewritesIOAndDefault(t *testing.T) {
	source := `
export const io = { inputs: {}, outputs: {} };
export default async function (inputs, ctx) {
  return {};
}
`
	got := TransformExports(source)

	if contains(got, "export const io") || contains(got, "export default") {
		t.Fatalf("expected export statements to be rewritten, got: %s", got)
	}
	if !contains(got, "var io") {
		t.Fatalf("expected 'var io' in transformed source, got: %s", got)
	}
	if !contains(got, "var __default__ =") {
		t.Fatalf("expected 'var __default__ =' in transformed source, got: %s", got)
	}
}

func TestExtractImportIDsDedupesAndPreservesOrder(t *testing.T) {
	source := `
importScript("a:one");
importScript('b:two');
importScript("a:one");
`
	got := ExtractImportIDs(source)
	want := []string{"a:one", "b:two"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExtractImportIDsNoMatches(t *testing.T) {
	got := ExtractImportIDs("export const io = {};")
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
