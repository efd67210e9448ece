package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerate_LiteralOnly(t *testing.T) {
	tree, err := ParseString("Hello, World!")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Hello, World!" {
		t.Fatalf("got %q", out)
	}
}

func TestGenerate_SerialValue(t *testing.T) {
	tree, err := ParseString(`<?gen.value order=serial max=3 format=#0 ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"0", "1", "2"}
	for i, w := range want {
		out, err := tree.GenerateToString(0)
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if out != w {
			t.Fatalf("call %d: got %q, want %q", i, out, w)
		}
	}
}

func TestGenerate_ContextAndBlock(t *testing.T) {
	tree, err := ParseString(`<?gen.begin count=3 context=combined ?>[<?gen.value order=context ?>]<?gen.end ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "[6][7][8]" {
		t.Fatalf("got %q, want [6][7][8]", out)
	}
}

func TestGenerate_VariableDefaultAndOverride(t *testing.T) {
	tree, err := ParseString(`<?gen.variable name=X default=alpha ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "alpha" {
		t.Fatalf("got %q, want alpha", out)
	}

	if err := tree.SetVariables("{x=beta}"); err != nil {
		t.Fatalf("set variables: %v", err)
	}
	out, err = tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "beta" {
		t.Fatalf("got %q, want beta", out)
	}
}

func TestGenerate_WordsInlineSourceSerialCursorPersists(t *testing.T) {
	tree, err := ParseString(`<?gen.words count=2 order=serial source={a,b,c} ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first != "a b" {
		t.Fatalf("first call: got %q, want %q", first, "a b")
	}
	second, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if second != "c a" {
		t.Fatalf("second call: got %q, want %q", second, "c a")
	}
}

func TestGenerate_DateYMD(t *testing.T) {
	tree, err := ParseString(`<?gen.date order=context type=ymd start=1/1/2000 ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "20000111" {
		t.Fatalf("got %q, want 20000111", out)
	}
}

func TestGenerate_SaveThenReadRoundTrips(t *testing.T) {
	tree, err := ParseString(`<?gen.value save=X format=#0 order=serial max=5 ?> <?gen.variable name=X ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 || fields[0] != fields[1] {
		t.Fatalf("expected matching round-trip pair, got %q", out)
	}
}

func TestGenerate_RangeShorthandMatchesExplicitBounds(t *testing.T) {
	a, err := ParseString(`<?gen.value order=serial range=5to20by2 format=#0 ?>`)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := ParseString(`<?gen.value order=serial min=5 max=20 factor=2 format=#0 ?>`)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	for ctx := int64(0); ctx < 10; ctx++ {
		oa, err := a.GenerateToString(ctx)
		if err != nil {
			t.Fatalf("generate a: %v", err)
		}
		ob, err := b.GenerateToString(ctx)
		if err != nil {
			t.Fatalf("generate b: %v", err)
		}
		if oa != ob {
			t.Fatalf("range= and explicit bounds diverged: %q != %q", oa, ob)
		}
	}
}

func TestGenerate_DeterministicAcrossFreshCompiles(t *testing.T) {
	tmpl := `<?gen.begin count=4 context=combined ?><?gen.value order=zipf min=0 max=50 ?>,<?gen.end ?>`
	a, err := ParseString(tmpl)
	if err != nil {
		t.Fatalf("parse a: %v", err)
	}
	b, err := ParseString(tmpl)
	if err != nil {
		t.Fatalf("parse b: %v", err)
	}
	oa, err := a.GenerateToString(7)
	if err != nil {
		t.Fatalf("generate a: %v", err)
	}
	ob, err := b.GenerateToString(7)
	if err != nil {
		t.Fatalf("generate b: %v", err)
	}
	if oa != ob {
		t.Fatalf("two fresh compilations of the same template diverged: %q != %q", oa, ob)
	}
}

func TestGenerate_BlockRatioDecayedCountWithinBounds(t *testing.T) {
	tree, err := ParseString(`<?gen.begin min=1 max=20 ratio=0.5 ?>x<?gen.end ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for ctx := int64(0); ctx < 50; ctx++ {
		out, err := tree.GenerateToString(ctx)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		n := len(out)
		if n < 1 || n > 20 {
			t.Fatalf("ratio-decayed count %d out of [1,20]", n)
		}
	}
}

func TestParseFile_IncludeDepthBoundary(t *testing.T) {
	dir := t.TempDir()

	// A chain of files, each including the next, pushes nesting past
	// MaxIncludeDepth partway through the chain.
	for i := 0; i <= MaxIncludeDepth+1; i++ {
		var body string
		if i == MaxIncludeDepth+1 {
			body = "leaf"
		} else {
			next := filepath.Join(dir, fileName(i+1))
			body = `<?gen.file source=` + next + ` ?>`
		}
		if err := os.WriteFile(filepath.Join(dir, fileName(i)), []byte(body), 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	tree, err := ParseFile(filepath.Join(dir, fileName(0)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := tree.GenerateToString(0); err == nil {
		t.Fatalf("expected include-depth error, got none")
	}
}

func TestParseFile_IncludeDepthWithinBoundarySucceeds(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i <= MaxIncludeDepth; i++ {
		var body string
		if i == MaxIncludeDepth {
			body = "leaf"
		} else {
			next := filepath.Join(dir, fileName(i+1))
			body = `<?gen.file source=` + next + ` ?>`
		}
		if err := os.WriteFile(filepath.Join(dir, fileName(i)), []byte(body), 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	tree, err := ParseFile(filepath.Join(dir, fileName(0)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "leaf" {
		t.Fatalf("got %q, want leaf", out)
	}
}

func TestParseStringWithOpt_MaxBytesOverrideRejectsOversizedTemplate(t *testing.T) {
	if _, err := ParseStringWithOpt("0123456789", ParseOpt{MaxBytes: 5}); err == nil {
		t.Fatalf("expected an error for a template exceeding the MaxBytes override")
	}
	if _, err := ParseStringWithOpt("0123456789", ParseOpt{MaxBytes: 50}); err != nil {
		t.Fatalf("unexpected error within the MaxBytes override: %v", err)
	}
}

func TestParseStringWithOpt_FailFastPromotesWarningsToError(t *testing.T) {
	// bogus= is not a recognized gen.value attribute, so this parse collects
	// a recoverable CodeUnknownAttribute warning rather than failing.
	tmpl := `<?gen.value bogus=1 ?>`

	tree, err := ParseString(tmpl)
	if err != nil {
		t.Fatalf("expected a lenient parse to succeed, got %v", err)
	}
	if len(tree.Issues) == 0 {
		t.Fatalf("expected the lenient parse to collect a warning")
	}

	if _, err := ParseStringWithOpt(tmpl, ParseOpt{FailFast: true}); err == nil {
		t.Fatalf("expected FailFast to promote the warning to a fatal error")
	}
}

func fileName(i int) string {
	return "level" + itoa(i) + ".tmpl"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
