package gmlgraph

import (
	"strconv"

	"synnergy-network/internal/simerrors"
)

// Parse converts GML source text into a Graph. Failure modes: unterminated
// string, unexpected character, missing id in a node, missing source/target
// in an edge, non-integer id/source/target, or structural bracket mismatch.
func Parse(src string) (*Graph, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expectIdent(text string) error {
	if p.cur.kind != tokIdent || p.cur.text != text {
		return simerrors.NewGmlParseError(p.cur.pos, "expected '%s'", text)
	}
	return p.advance()
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.cur.kind != kind {
		return token{}, simerrors.NewGmlParseError(p.cur.pos, "expected %s", what)
	}
	t := p.cur
	return t, p.advance()
}

// file = "graph" "[" (node | edge | attr)* "]"
func (p *parser) parseFile() (*Graph, error) {
	if err := p.expectIdent("graph"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return nil, err
	}
	g := &Graph{Attributes: map[string]string{}}
	for p.cur.kind != tokRBracket {
		if p.cur.kind == tokEOF {
			return nil, simerrors.NewGmlParseError(p.cur.pos, "unexpected end of input, expected ']'")
		}
		if p.cur.kind != tokIdent {
			return nil, simerrors.NewGmlParseError(p.cur.pos, "expected attribute identifier")
		}
		switch p.cur.text {
		case "node":
			n, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			g.Nodes = append(g.Nodes, n)
		case "edge":
			e, err := p.parseEdge()
			if err != nil {
				return nil, err
			}
			g.Edges = append(g.Edges, e)
		default:
			key, val, err := p.parseAttr()
			if err != nil {
				return nil, err
			}
			g.Attributes[key] = val
		}
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	return g, nil
}

// node = "node" "[" attr* "]"
func (p *parser) parseNode() (GmlNode, error) {
	if err := p.expectIdent("node"); err != nil {
		return GmlNode{}, err
	}
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return GmlNode{}, err
	}
	n := GmlNode{Attributes: map[string]string{}}
	haveID := false
	for p.cur.kind != tokRBracket {
		if p.cur.kind != tokIdent {
			return GmlNode{}, simerrors.NewGmlParseError(p.cur.pos, "expected attribute identifier")
		}
		key, val, err := p.parseAttr()
		if err != nil {
			return GmlNode{}, err
		}
		switch key {
		case "id":
			id, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return GmlNode{}, simerrors.NewGmlParseError(p.cur.pos, "Invalid node id: %s", val)
			}
			n.ID = uint32(id)
			haveID = true
		case "label":
			n.Label = val
			n.HasLabel = true
		default:
			n.Attributes[key] = val
		}
	}
	if !haveID {
		return GmlNode{}, simerrors.NewGmlParseError(p.cur.pos, "Node missing required 'id' attribute")
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return GmlNode{}, err
	}
	return n, nil
}

// edge = "edge" "[" attr* "]"
func (p *parser) parseEdge() (GmlEdge, error) {
	if err := p.expectIdent("edge"); err != nil {
		return GmlEdge{}, err
	}
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return GmlEdge{}, err
	}
	e := GmlEdge{Attributes: map[string]string{}}
	haveSource, haveTarget := false, false
	for p.cur.kind != tokRBracket {
		if p.cur.kind != tokIdent {
			return GmlEdge{}, simerrors.NewGmlParseError(p.cur.pos, "expected attribute identifier")
		}
		key, val, err := p.parseAttr()
		if err != nil {
			return GmlEdge{}, err
		}
		switch key {
		case "source":
			id, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return GmlEdge{}, simerrors.NewGmlParseError(p.cur.pos, "Invalid edge source: %s", val)
			}
			e.Source = uint32(id)
			haveSource = true
		case "target":
			id, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return GmlEdge{}, simerrors.NewGmlParseError(p.cur.pos, "Invalid edge target: %s", val)
			}
			e.Target = uint32(id)
			haveTarget = true
		case "packet_loss":
			e.Attributes[key] = normalizePacketLoss(val)
		default:
			e.Attributes[key] = val
		}
	}
	if !haveSource {
		return GmlEdge{}, simerrors.NewGmlParseError(p.cur.pos, "Edge missing required 'source' attribute")
	}
	if !haveTarget {
		return GmlEdge{}, simerrors.NewGmlParseError(p.cur.pos, "Edge missing required 'target' attribute")
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return GmlEdge{}, err
	}
	return e, nil
}

// attr = identifier (identifier | number | string)
func (p *parser) parseAttr() (string, string, error) {
	keyTok := p.cur
	if err := p.advance(); err != nil {
		return "", "", err
	}
	key := keyTok.text
	switch p.cur.kind {
	case tokIdent, tokNumber, tokString:
		val := p.cur.text
		if err := p.advance(); err != nil {
			return "", "", err
		}
		return key, val, nil
	default:
		return "", "", simerrors.NewGmlParseError(p.cur.pos, "expected attribute value for '%s'", key)
	}
}
