package obfuscator

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"js-obfuscator/ast"
	"js-obfuscator/lexer"
	"js-obfuscator/parser"
)

func parseSource(t *testing.T, source string) *ast.Node {
	t.Helper()
	p := parser.New(lexer.New(source).Tokenize())
	tree := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors for %q: %v", source, p.Errors())
	}
	return tree
}

func TestObfuscateFunctionDeclaration(t *testing.T) {
	tree := parseSource(t, "function add(a,b){return a+b;}")
	o := New(testConfig())
	if got := o.Obfuscate(tree); got != tree {
		t.Fatalf("Obfuscate must return the same tree")
	}

	fn := tree.Child(0)
	if len(fn.Children) != 3 {
		t.Fatalf("shape changed: %s", spew.Sdump(fn))
	}
	a, b := fn.Child(0).Value, fn.Child(1).Value
	sum := fn.Child(2).Child(0).Child(0)
	if sum.Child(0).Value != a || sum.Child(1).Value != b {
		t.Errorf("uses do not match declarations: params %s %s, body %s %s",
			a, b, sum.Child(0).Value, sum.Child(1).Value)
	}
	if fn.Value != "_0x000000" || a != "_0x001234" || b != "_0x002468" {
		t.Errorf("unexpected names: %s %s %s", fn.Value, a, b)
	}
}

func TestRenameBijection(t *testing.T) {
	source := `
var alpha = 1;
function beta(gamma, delta) {
  let epsilon = gamma + delta * alpha;
  return console.log(epsilon, window);
}
beta(alpha, zeta);
const alpha2 = beta(alpha);
`
	tree := parseSource(t, source)
	o := New(testConfig())
	o.Obfuscate(tree)

	mapping := o.NameMapping()
	original := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "alpha2"}
	if len(mapping) != len(original) {
		t.Fatalf("expected %d renamed identifiers, got %v", len(original), mapping)
	}

	seen := make(map[string]string)
	for _, name := range original {
		obf, ok := mapping[name]
		if !ok {
			t.Errorf("%s was not renamed", name)
			continue
		}
		if other, dup := seen[obf]; dup {
			t.Errorf("%s and %s share generated name %s", name, other, obf)
		}
		seen[obf] = name
		if o.shouldProtect(obf) {
			t.Errorf("generated name %s collides with a reserved name", obf)
		}
	}

	tree.Walk(func(n *ast.Node) bool {
		if n.Kind == ast.Identifier && !o.shouldProtect(n.Value) {
			if _, ok := seen[n.Value]; !ok {
				t.Errorf("identifier %s is neither reserved nor a generated name", n.Value)
			}
		}
		return true
	})
}

func TestReservedCollisionIsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.ReservedNames = []string{"_0x000000"}
	o := New(cfg)

	tree := parseSource(t, "var a = _0x000000;")
	o.Obfuscate(tree)

	decl := tree.Child(0)
	if decl.Value != "_0x001234" {
		t.Errorf("expected the reserved candidate to be skipped, got %s", decl.Value)
	}
	if decl.Child(0).Value != "_0x000000" {
		t.Errorf("reserved identifier must be untouched, got %s", decl.Child(0).Value)
	}
}

func TestStringTableOrder(t *testing.T) {
	tree := parseSource(t, `f("hi"); g("bye"); h("hi"); obj.prop; "bye";`)
	o := New(testConfig())
	o.Obfuscate(tree)

	table := o.StringTable()
	expected := []string{"hi", "bye", "prop"}
	if strings.Join(table, "|") != strings.Join(expected, "|") {
		t.Fatalf("expected table %v, got %v", expected, table)
	}

	var indices []string
	tree.Walk(func(n *ast.Node) bool {
		if n.Kind == ast.String {
			indices = append(indices, n.Value)
		}
		return true
	})
	if strings.Join(indices, ",") != "0,1,0,1" {
		t.Errorf("unexpected string indices: %v", indices)
	}

	stats := o.GetStatistics()
	if stats.StringsInterned != 4 || stats.TableSize != 3 {
		t.Errorf("unexpected statistics: %+v", stats)
	}
}

func TestPropertiesAreNotRenamed(t *testing.T) {
	cfg := testConfig()
	cfg.StringTable = false
	tree := parseSource(t, "user.name.first;")
	o := New(cfg)
	o.Obfuscate(tree)

	outer := tree.Child(0)
	if outer.Child(1).Value != "first" || outer.Child(0).Child(1).Value != "name" {
		t.Errorf("property names were rewritten: %s", spew.Sdump(outer))
	}
	if outer.Child(0).Child(0).Value != "_0x000000" {
		t.Errorf("object identifier should be renamed: %s", spew.Sdump(outer))
	}
	if len(o.StringTable()) != 0 {
		t.Errorf("table must stay empty when disabled, got %v", o.StringTable())
	}
}

func TestNumberCanonicalization(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"007", "7"},
		{"0", "0"},
		{"3.14", "3.14"},
		{"1e3", "1e3"},
		{"99999999999999999999", "99999999999999999999"},
	}

	for _, tt := range tests {
		tree := parseSource(t, tt.input)
		New(testConfig()).Obfuscate(tree)
		if got := tree.Child(0).Value; got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestObfuscateResetsState(t *testing.T) {
	o := New(testConfig())

	first := parseSource(t, `var x = "a";`)
	o.Obfuscate(first)
	second := parseSource(t, `var y = "b";`)
	o.Obfuscate(second)

	if first.Child(0).Value != second.Child(0).Value {
		t.Errorf("each run should start from a fresh counter: %s vs %s", first.Child(0).Value, second.Child(0).Value)
	}
	if table := o.StringTable(); len(table) != 1 || table[0] != "b" {
		t.Errorf("table should only hold the last run: %v", table)
	}
	if _, ok := o.NameMapping()["x"]; ok {
		t.Errorf("rename map leaked across runs")
	}
}

func TestCustomPrefix(t *testing.T) {
	cfg := testConfig()
	cfg.NamePrefix = "v"
	tree := parseSource(t, "a; b;")
	New(cfg).Obfuscate(tree)

	if tree.Child(0).Value != "v000000" || tree.Child(1).Value != "v001234" {
		t.Errorf("unexpected names: %s %s", tree.Child(0).Value, tree.Child(1).Value)
	}
}

func TestNewWithNilConfig(t *testing.T) {
	o := New(nil)
	if o.Config == nil || !o.Config.StringTable {
		t.Fatalf("expected default config, got %+v", o.Config)
	}
	if !o.shouldProtect("console") {
		t.Errorf("default reserved names should include console")
	}
}
