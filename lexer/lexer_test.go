package lexer

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	input := `function add(a, b) { return a + b; }
let s = "hi"; var t = 'x\'y'; const u = ` + "`tpl`" + `;
obj.prop(3.14e-2);`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{Keyword, "function"},
		{Identifier, "add"},
		{Symbol, "("},
		{Identifier, "a"},
		{Symbol, ","},
		{Identifier, "b"},
		{Symbol, ")"},
		{Symbol, "{"},
		{Keyword, "return"},
		{Identifier, "a"},
		{Operator, "+"},
		{Identifier, "b"},
		{Symbol, ";"},
		{Symbol, "}"},
		{Keyword, "let"},
		{Identifier, "s"},
		{Operator, "="},
		{String, `"hi"`},
		{Symbol, ";"},
		{Keyword, "var"},
		{Identifier, "t"},
		{Operator, "="},
		{String, `'x\'y'`},
		{Symbol, ";"},
		{Keyword, "const"},
		{Identifier, "u"},
		{Operator, "="},
		{String, "`tpl`"},
		{Symbol, ";"},
		{Identifier, "obj"},
		{Symbol, "."},
		{Identifier, "prop"},
		{Symbol, "("},
		{Number, "3.14e-2"},
		{Symbol, ")"},
		{Symbol, ";"},
	}

	l := New(input)
	tokens := l.Tokenize()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", l.Errors())
	}
	if len(tokens) != len(tests) {
		t.Fatalf("wrong token count. expected=%d, got=%d (%v)", len(tests), len(tokens), tokens)
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.expectedType {
			t.Errorf("tests[%d] - type wrong. expected=%s, got=%s", i, tt.expectedType, tok.Type)
		}
		if tok.Value != tt.expectedValue {
			t.Errorf("tests[%d] - value wrong. expected=%q, got=%q", i, tt.expectedValue, tok.Value)
		}
	}
}

func TestLongestMatchOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a === b", []string{"a", "===", "b"}},
		{"a !== b", []string{"a", "!==", "b"}},
		{"x >>>= 1", []string{"x", ">>>=", "1"}},
		{"x>>>1", []string{"x", ">>>", "1"}},
		{"a==b", []string{"a", "==", "b"}},
		{"i++", []string{"i", "++"}},
		{"a&&b||c", []string{"a", "&&", "b", "||", "c"}},
		{"() => {}", []string{"(", ")", "=>", "{", "}"}},
	}

	for _, tt := range tests {
		tokens := New(tt.input).Tokenize()
		var got []string
		for _, tok := range tokens {
			got = append(got, tok.Value)
		}
		if strings.Join(got, " ") != strings.Join(tt.expected, " ") {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestKeywordsAreWordBounded(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
	}{
		{"if", Keyword},
		{"iffy", Identifier},
		{"if_", Identifier},
		{"if2", Identifier},
		{"returnValue", Identifier},
		{"this", Keyword},
	}

	for _, tt := range tests {
		tokens := New(tt.input).Tokenize()
		if len(tokens) != 1 {
			t.Fatalf("%q: expected 1 token, got %d", tt.input, len(tokens))
		}
		if tokens[0].Type != tt.expectedType {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expectedType, tokens[0].Type)
		}
	}
}

func TestUnknownCharacterIsSkipped(t *testing.T) {
	l := New("a # $b")
	tokens := l.Tokenize()

	if len(tokens) != 2 || tokens[0].Value != "a" || tokens[1].Value != "b" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	errs := l.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", errs)
	}
	if errs[0] != "1:3: unknown token '#'" {
		t.Errorf("wrong diagnostic: %q", errs[0])
	}
}

func TestTokenizeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"\"unterminated",
		"'also unterminated\n",
		"/* never closed",
		"\x00\x01\xff\xfe",
		"@@@###",
		"é ü 世界",
		"`",
		"\\",
	}

	for _, input := range inputs {
		l := New(input)
		tokens := l.Tokenize()
		for _, tok := range tokens {
			if tok.Value == "" {
				t.Errorf("%q: empty token produced", input)
			}
		}
	}
}

func TestTokenizeIsRestartable(t *testing.T) {
	l := New("var x = 1 # 2;")
	first := l.Tokenize()
	firstErrs := len(l.Errors())
	second := l.Tokenize()

	if len(first) != len(second) {
		t.Fatalf("token count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %v vs %v", i, first[i], second[i])
		}
	}
	if firstErrs != len(l.Errors()) {
		t.Errorf("diagnostics accumulated across runs: %d vs %d", firstErrs, len(l.Errors()))
	}
}

func TestCommentsAndPositions(t *testing.T) {
	input := "// leading comment\nfoo /* inline */ bar\n  baz"
	tokens := New(input).Tokenize()

	expected := []Token{
		{Type: Identifier, Value: "foo", Line: 2, Column: 1},
		{Type: Identifier, Value: "bar", Line: 2, Column: 18},
		{Type: Identifier, Value: "baz", Line: 3, Column: 3},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %v", len(expected), tokens)
	}
	for i, want := range expected {
		if tokens[i] != want {
			t.Errorf("token %d: expected %+v, got %+v", i, want, tokens[i])
		}
	}
}

func TestNumberBoundaries(t *testing.T) {
	tokens := New("1. 2.5 3e10 4E+2").Tokenize()
	var got []string
	for _, tok := range tokens {
		got = append(got, tok.Type.String()+":"+tok.Value)
	}
	want := "Number:1 Symbol:. Number:2.5 Number:3e10 Number:4E+2"
	if strings.Join(got, " ") != want {
		t.Errorf("expected %s, got %s", want, strings.Join(got, " "))
	}
}
