// Package dub implements the small command language used for envelope
// patterns, sequencer rhythms and console commands.
//
// A command is an identifier followed by arguments:
//
//	noteon '10 '36,38
//	cc '1 '74 64
//	set seq bpm 128.5
//	load "songs/intro.mid"
//
// Arguments prefixed with a quote are match expressions: comma separated
// lists ('1,2), inclusive ranges ('1:4) or '*, optionally divided into
// rhythmic levels by slashes ('*/2).
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (MatchExpr) isNode()  {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string
type MatchExpr struct {
	matchers []matchItem
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

// ParseMatchExpr parses a single match expression. The leading quote is
// optional: "*/2" and "'*/2" are equivalent.
func ParseMatchExpr(input string) (MatchExpr, error) {
	tokens, err := lex(input)
	if err != nil {
		return MatchExpr{}, err
	}
	p := parser{tokens: tokens}
	if p.peek().typ == typeQuote {
		p.next()
	}
	expr, err := p.matchExpr()
	if err != nil {
		return expr, err
	}
	if t := p.next(); t.typ != typeEOF {
		return expr, unexpected(t)
	}
	return expr, nil
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			arg = String(token.text[1 : len(token.text)-1])
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, err
			}
			arg = Float(f)
		case typeInt:
			n, err := strconv.Atoi(token.text)
			if err != nil {
				return cmd, err
			}
			arg = Int(n)
		case typeQuote:
			matchExpr, err := p.matchExpr()
			if err != nil {
				return cmd, err
			}
			arg = matchExpr
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

// matchExpr parses the tokens following a quote. The expression ends at the
// first token that can't continue it.
func (p *parser) matchExpr() (MatchExpr, error) {
	var match MatchExpr
	level := 0
	for {
		m, err := p.matcher()
		if err != nil {
			return match, err
		}
		match.matchers = append(match.matchers, matchItem{level: level, matcher: m})

		if p.peek().typ != typeSlash {
			return match, nil
		}
		for p.peek().typ == typeSlash {
			p.next()
			level++
		}
	}
}

func (p *parser) matcher() (matcher, error) {
	token := p.next()
	switch token.typ {
	case typeAsterisk:
		return matchAll, nil
	case typeInt:
		if p.peek().typ == typeColon {
			p.next()
			start, err := strconv.Atoi(token.text)
			if err != nil {
				return nil, err
			}
			t := p.next()
			if t.typ != typeInt {
				return nil, unexpected(t)
			}
			end, err := strconv.Atoi(t.text)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("invalid range %d:%d at position %d", start, end, token.pos)
			}
			return rangeMatch{start: start, end: end}, nil
		}
		return p.listMatch(token)
	default:
		return nil, unexpected(token)
	}
}

func (p *parser) listMatch(start token) (listMatch, error) {
	var list listMatch
	current := start
	for {
		n, err := strconv.Atoi(current.text)
		if err != nil {
			return list, err
		}
		list = append(list, n)
		if p.peek().typ != typeComma {
			return list, nil
		}
		p.next()
		current = p.next()
		if current.typ != typeInt {
			return list, unexpected(current)
		}
	}
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input at position %d", t.pos)
	}
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
