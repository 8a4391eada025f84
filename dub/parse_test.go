package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input string
		want  Command
	}
	tests := []test{
		{
			input: "A '1",
			want: Command{
				Name: Identifier("A"),
				Args: []Node{
					MatchExpr{
						matchers: []matchItem{
							{level: 0, matcher: listMatch{1}},
						},
					},
				},
			},
		},
		{
			input: "A '*/*",
			want: Command{
				Name: Identifier("A"),
				Args: []Node{
					MatchExpr{
						matchers: []matchItem{
							{level: 0, matcher: matchAll},
							{level: 1, matcher: matchAll},
						},
					},
				},
			},
		},
		{
			input: "A '1,2//3:4",
			want: Command{
				Name: Identifier("A"),
				Args: []Node{
					MatchExpr{
						matchers: []matchItem{
							{level: 0, matcher: listMatch{1, 2}},
							{level: 2, matcher: rangeMatch{start: 3, end: 4}},
						},
					},
				},
			},
		},
		{
			input: "noteon '10 '36,38",
			want: Command{
				Name: Identifier("noteon"),
				Args: []Node{
					MatchExpr{matchers: []matchItem{{matcher: listMatch{10}}}},
					MatchExpr{matchers: []matchItem{{matcher: listMatch{36, 38}}}},
				},
			},
		},
		{
			input: "cc '* '74 64",
			want: Command{
				Name: Identifier("cc"),
				Args: []Node{
					MatchExpr{matchers: []matchItem{{matcher: matchAll}}},
					MatchExpr{matchers: []matchItem{{matcher: listMatch{74}}}},
					Int(64),
				},
			},
		},
		{
			input: "set seq bpm 128.5",
			want: Command{
				Name: Identifier("set"),
				Args: []Node{Identifier("seq"), Identifier("bpm"), Float(128.5)},
			},
		},
		{
			input: `load "a/file.wav"`,
			want: Command{
				Name: Identifier("load"),
				Args: []Node{String("a/file.wav")},
			},
		},
		{
			input: `load ""`,
			want: Command{
				Name: Identifier("load"),
				Args: []Node{String("")},
			},
		},
	}
	for _, test := range tests {
		got, err := Parse(test.input)
		if err != nil {
			t.Fatalf("%q: %v", test.input, err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%q\nwant: %+v\ngot:  %+v", test.input, test.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"1 2",
		"A '",
		"A '1,",
		"A '4:1",
		"A '1:*",
		"A ',",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}

func TestMatchExprString(t *testing.T) {
	for _, input := range []string{"'1", "'1,2//3:4", "'*/2", "'*"} {
		cmd, err := Parse("A " + input)
		if err != nil {
			t.Fatal(err)
		}
		if want, got := input, cmd.Args[0].(MatchExpr).String(); want != got {
			t.Errorf("want %q, got %q", want, got)
		}
	}
}

func TestParseMatchExpr(t *testing.T) {
	for input, want := range map[string]string{
		"*/2":     "'*/2",
		"'1,3":    "'1,3",
		" 2:4//1": "'2:4//1",
	} {
		expr, err := ParseMatchExpr(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if got := expr.String(); want != got {
			t.Errorf("%q: want %q, got %q", input, want, got)
		}
	}
	for _, input := range []string{"", "'", "1 2", "*/x", "bpm"} {
		if _, err := ParseMatchExpr(input); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}
