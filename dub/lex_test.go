package dub

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "noteon '10 '36,38",
			expect: []token{
				{typ: typeIdentifier, text: "noteon"},
				{typ: typeQuote, text: "'"},
				{typ: typeInt, text: "10"},
				{typ: typeQuote, text: "'"},
				{typ: typeInt, text: "36"},
				{typ: typeComma, text: ","},
				{typ: typeInt, text: "38"},
				{typ: typeEOF},
			},
		},
		{
			input: "A '* 2",
			expect: []token{
				{typ: typeIdentifier, text: "A"},
				{typ: typeQuote, text: "'"},
				{typ: typeAsterisk, text: "*"},
				{typ: typeInt, text: "2"},
				{typ: typeEOF},
			},
		},
		{
			input: "'1:2 /    / 3,4",
			expect: []token{
				{typ: typeQuote, text: "'"},
				{typ: typeInt, text: "1"},
				{typ: typeColon, text: ":"},
				{typ: typeInt, text: "2"},
				{typ: typeSlash, text: "/"},
				{typ: typeSlash, text: "/"},
				{typ: typeInt, text: "3"},
				{typ: typeComma, text: ","},
				{typ: typeInt, text: "4"},
				{typ: typeEOF},
			},
		},
		{
			input: "set audio onset.threshold 0.25",
			expect: []token{
				{typ: typeIdentifier, text: "set"},
				{typ: typeIdentifier, text: "audio"},
				{typ: typeIdentifier, text: "onset.threshold"},
				{typ: typeFloat, text: "0.25"},
				{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				{typ: typeFloat, text: "-1."},
				{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				{typ: typeFloat, text: "-.1"},
				{typ: typeEOF},
			},
		},
		{
			input: `load "songs/intro one.mid" 1`,
			expect: []token{
				{typ: typeIdentifier, text: "load"},
				{typ: typeString, text: `"songs/intro one.mid"`},
				{typ: typeInt, text: "1"},
				{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error for %q: %v", test.input, err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch for %q: \nwant: %+v, \ngot:  %+v", test.input, test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -",
		"a .-",
		"a 12b",
		`load "unterminated`,
		"cc'1",
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
