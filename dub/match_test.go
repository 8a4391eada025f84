package dub

import (
	"reflect"
	"testing"
)

func TestEvalMatchExpr(t *testing.T) {
	type test struct {
		input    string
		num      int
		denom    int
		stepSize int
		expect   []int
	}
	tests := []test{
		{
			input:    "2,4/*",
			num:      4,
			denom:    4,
			stepSize: 16,
			expect:   []int{0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 0},
		},
		{
			input:    "1:4",
			num:      4,
			denom:    4,
			stepSize: 16,
			expect:   []int{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			input:    "1:2//1:4",
			num:      4,
			denom:    4,
			stepSize: 16,
			expect:   []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			input:    "*//3,4",
			num:      4,
			denom:    4,
			stepSize: 16,
			expect:   []int{0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1},
		},
		{
			input:    "*/2",
			num:      4,
			denom:    4,
			stepSize: 16,
			expect:   []int{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
		},
		{
			input:    "5",
			num:      5,
			denom:    4,
			stepSize: 16,
			expect:   []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			input:    "*",
			num:      7,
			denom:    8,
			stepSize: 16,
			expect:   []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
		},
		{
			input:    "*/2",
			num:      7,
			denom:    8,
			stepSize: 16,
			expect:   []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
		},
		{
			input:    "*",
			num:      4,
			denom:    4,
			stepSize: 32,
			expect: []int{
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 0, 0, 0, 0,
			},
		},
	}
	for _, test := range tests {
		command, err := Parse("a '" + test.input) // make the input a valid dub command
		if err != nil {
			t.Error(err)
			continue
		}
		expr := command.Args[0].(MatchExpr)

		got, err := EvalMatchExpr(expr, test.num, test.denom, test.stepSize)
		if err != nil {
			t.Errorf("%q: %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(test.expect, got) {
			t.Errorf("%q seq mismatch:\nwant %v\ngot: %v", test.input, test.expect, got)
		}
	}
}

func TestEvalMatchExprErrors(t *testing.T) {
	command, err := Parse("a '*///*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := EvalMatchExpr(command.Args[0].(MatchExpr), 4, 4, 16); err == nil {
		t.Error("expected error for a division finer than the step size")
	}
	if _, err := EvalMatchExpr(MatchExpr{}, 4, 4, 16); err == nil {
		t.Error("expected error for an empty expression")
	}
	if _, err := EvalMatchExpr(MatchAll(), 0, 4, 16); err == nil {
		t.Error("expected error for a zero numerator")
	}
}

func TestMatch(t *testing.T) {
	if !MatchAll().Match(99) {
		t.Error("'* should match anything")
	}
	list := MatchList(36, 38)
	if !list.Match(38) || list.Match(37) {
		t.Errorf("wrong list match for %v", list)
	}
	command, err := Parse("a '1:4/2")
	if err != nil {
		t.Fatal(err)
	}
	if command.Args[0].(MatchExpr).Match(1) {
		t.Error("multi-level expressions should not match single values")
	}
}
