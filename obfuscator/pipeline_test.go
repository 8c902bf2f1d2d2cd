package obfuscator

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestRunCollectsDiagnostics(t *testing.T) {
	o := New(testConfig())
	result := o.Run("function (){} var x = 1 # 2;")

	if result.Tree == nil {
		t.Fatal("Run must always return a tree")
	}
	if len(result.Diagnostics) < 2 {
		t.Fatalf("expected lexer and parser diagnostics, got %v", result.Diagnostics)
	}
	if result.Diagnostics[0] != "1:25: unknown token '#'" {
		t.Errorf("lexer diagnostics should come first, got %q", result.Diagnostics[0])
	}
	if !strings.Contains(result.Code, "var _0x000000 = 1;") {
		t.Errorf("parsing should resume after the malformed function:\n%s", result.Code)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	source := `function f(a) { return a.x + "s"; } f(1);`
	first := New(testConfig()).Run(source).Code
	o := New(testConfig())
	o.Run(`var other = "t";`)
	second := o.Run(source).Code

	if first != second {
		t.Errorf("runs differ:\n%s\n%s", first, second)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"function add(a,b){return a+b;}",
		`console.log("hi")`,
		`var s = 'a' + "b" * c.d.e(f, "g"); return;`,
		`if (x) { y(); } else { z.w; } while (n) { n; }`,
		`for (var i = 0; i; step(i)) { { nested; } }`,
		`document.title.length; Math.max(1, 2); window.foo.length;`,
		`let q = "quote ' and \\ and \n";`,
	}

	for _, tableOn := range []bool{true, false} {
		for _, source := range sources {
			cfg := testConfig()
			cfg.StringTable = tableOn
			o := New(cfg)
			result := o.Run(source)
			if err := o.Verify(result.Code); err != nil {
				t.Errorf("table=%v %q: %v\n%s", tableOn, source, err, result.Code)
			}
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	o := New(testConfig())
	result := o.Run("function add(a,b){return a+b;}")

	tampered := strings.Replace(result.Code, "return (", "return  (", 1)
	if err := o.Verify(tampered); err == nil {
		t.Errorf("expected verification failure for:\n%s", tampered)
	}

	broken := strings.Replace(result.Code, "function", "", 1)
	if err := o.Verify(broken); err == nil {
		t.Errorf("expected verification failure for:\n%s", broken)
	}
}

func TestVerifyKeepsRunState(t *testing.T) {
	o := New(testConfig())
	o.Run(`var a = "x";`)
	before := *o.GetStatistics()

	if err := o.Verify(o.Run(`var a = "x";`).Code); err != nil {
		t.Fatal(err)
	}
	if after := *o.GetStatistics(); after != before {
		t.Errorf("Verify changed statistics: %+v vs %+v", before, after)
	}
}

func TestReparseRestoresTable(t *testing.T) {
	o := New(testConfig())
	result := o.Run(`user.name("hi");`)

	r := New(testConfig())
	tree, diagnostics := r.Reparse(result.Code)
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	if strings.Join(r.StringTable(), ",") != "name,hi" {
		t.Errorf("unexpected restored table: %v", r.StringTable())
	}

	call := tree.Child(0)
	if call == nil || call.Child(0) == nil || call.Child(0).Child(1).Value != "name" {
		t.Fatalf("member property not restored: %s", spew.Sdump(tree))
	}
	if call.Child(1).Value != "1" {
		t.Errorf("string argument should be table index 1, got %q", call.Child(1).Value)
	}
}

func TestReparsePlainProgram(t *testing.T) {
	o := New(testConfig())
	tree, diagnostics := o.Reparse("var a = 'x'; a;")
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnostics)
	}
	if len(tree.Children) != 2 || tree.Child(0).Child(0).Value != "x" {
		t.Errorf("unexpected tree: %s", spew.Sdump(tree))
	}
	if len(o.StringTable()) != 0 {
		t.Errorf("plain program should not restore a table")
	}
}
