package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/scanner"
	"cuelang.org/go/cue/token"

	"github.com/roach88/remap/internal/value"
)

// Parse reads one expression from src. filename only labels positions and
// may be empty.
func Parse(filename, src string) (Node, error) {
	p := newParser(filename, []byte(src))
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok == token.EOF {
		return nil, p.errorf(p.pos, "empty program")
	}

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok != token.EOF {
		return nil, p.errorf(p.pos, "unexpected %s after expression", p.describe())
	}
	return n, nil
}

type parser struct {
	sc scanner.Scanner

	// current token
	pos token.Pos
	tok token.Token
	lit string
}

func newParser(filename string, src []byte) *parser {
	p := &parser{}
	p.sc.Init(token.NewFile(filename, 1, len(src)), src, nil, 0)
	return p
}

// next advances to the next significant token. Commas inserted by the
// scanner at line ends are dropped: they are not part of the call syntax.
func (p *parser) next() error {
	for {
		errs := p.sc.ErrorCount
		p.pos, p.tok, p.lit = p.sc.Scan()
		if p.sc.ErrorCount > errs || p.tok == token.ILLEGAL {
			return p.errorf(p.pos, "invalid token %q", p.lit)
		}
		if p.tok == token.COMMA && p.lit == "\n" {
			continue
		}
		return nil
	}
}

func (p *parser) expect(tok token.Token) (token.Pos, error) {
	pos := p.pos
	if p.tok != tok {
		return pos, p.errorf(pos, "expected %s, found %s", tok, p.describe())
	}
	return pos, p.next()
}

func (p *parser) parseExpr() (Node, error) {
	switch p.tok {
	case token.IDENT:
		return p.parseIdent()
	case token.PERIOD:
		return p.parsePath()
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL, token.SUB:
		return p.parseLiteral()
	case token.INTERPOLATION:
		return nil, p.errorf(p.pos, "string interpolation is not supported")
	default:
		return nil, p.errorf(p.pos, "expected expression, found %s", p.describe())
	}
}

// parseIdent handles the two constructs starting with an identifier:
// timestamp literals (t'...') and function calls.
func (p *parser) parseIdent() (Node, error) {
	pos, name := p.pos, p.lit
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseIdentRest(pos, name)
}

// parseIdentRest continues after the identifier name at pos has been
// consumed.
func (p *parser) parseIdentRest(pos token.Pos, name string) (Node, error) {
	if name == "t" && p.tok == token.STRING && p.pos.Offset() == pos.Offset()+len(name) {
		if !strings.HasPrefix(p.lit, "'") {
			return nil, p.errorf(pos, "timestamp literal must be single-quoted: t'...'")
		}
		ts, err := p.timestamp()
		if err != nil {
			return nil, err
		}
		return &Literal{Value: ts, ValuePos: pos}, p.next()
	}

	if p.tok != token.LPAREN {
		return nil, p.errorf(pos, "unexpected identifier %q: only function calls are supported", name)
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	call := &Call{Name: name, NamePos: pos}
	for p.tok != token.RPAREN {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.tok == token.RPAREN {
			break
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseArg() (Arg, error) {
	pos := p.pos
	if p.tok != token.IDENT {
		n, err := p.parseExpr()
		return Arg{Value: n, ArgPos: pos}, err
	}

	// An identifier is either a keyword or the start of a call or
	// timestamp literal.
	ident := p.lit
	if err := p.next(); err != nil {
		return Arg{}, err
	}
	if p.tok != token.COLON {
		n, err := p.parseIdentRest(pos, ident)
		return Arg{Value: n, ArgPos: pos}, err
	}
	if err := p.next(); err != nil {
		return Arg{}, err
	}
	n, err := p.parseExpr()
	return Arg{Keyword: ident, Value: n, ArgPos: pos}, err
}

func (p *parser) parsePath() (Node, error) {
	path := &Path{PathPos: p.pos}
	for p.tok == token.PERIOD {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok != token.IDENT {
			if len(path.Segments) == 0 {
				// The bare "." refers to the whole event.
				return path, nil
			}
			return nil, p.errorf(p.pos, "expected field name, found %s", p.describe())
		}
		path.Segments = append(path.Segments, p.lit)
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return path, nil
}

func (p *parser) parseLiteral() (Node, error) {
	pos := p.pos
	negative := false
	if p.tok == token.SUB {
		negative = true
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok != token.INT && p.tok != token.FLOAT {
			return nil, p.errorf(p.pos, "expected number after -, found %s", p.describe())
		}
	}

	var v value.Value
	switch p.tok {
	case token.INT:
		lit := p.lit
		if negative {
			lit = "-" + lit
		}
		n, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return nil, p.errorf(pos, "invalid integer %s", lit)
		}
		v = value.Integer(n)
	case token.FLOAT:
		f, err := strconv.ParseFloat(p.lit, 64)
		if err != nil {
			return nil, p.errorf(pos, "invalid float %s", p.lit)
		}
		if negative {
			f = -f
		}
		v = value.Float(f)
	case token.STRING:
		s, err := literal.Unquote(p.lit)
		if err != nil {
			return nil, p.errorf(pos, "invalid string %s: %v", p.lit, err)
		}
		v = value.Bytes(s)
	case token.TRUE:
		v = value.Boolean(true)
	case token.FALSE:
		v = value.Boolean(false)
	case token.NULL:
		v = value.Null{}
	}
	return &Literal{Value: v, ValuePos: pos}, p.next()
}

// timestamp decodes the string token following a "t" prefix.
func (p *parser) timestamp() (value.Timestamp, error) {
	s, err := literal.Unquote(p.lit)
	if err != nil {
		return value.Timestamp{}, p.errorf(p.pos, "invalid timestamp literal %s: %v", p.lit, err)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return value.Timestamp{}, p.errorf(p.pos, "invalid timestamp %q: expected RFC 3339", s)
	}
	return value.NewTimestamp(t), nil
}

func (p *parser) describe() string {
	switch p.tok {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.INT, token.FLOAT, token.STRING:
		return fmt.Sprintf("%s %s", p.tok, p.lit)
	default:
		return fmt.Sprintf("%q", p.tok.String())
	}
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
