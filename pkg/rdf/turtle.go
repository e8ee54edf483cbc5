package rdf

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TurtleDecoder is a scanner-based Turtle/N-Triples decoder. The prefix table
// is scoped to one decoder instance; nothing leaks between parse sessions.
type TurtleDecoder struct {
	input            string
	pos              int
	length           int
	prefixes         map[string]string
	base             string
	strictNTriples   bool // enforce N-Triples syntax (no directives, no abbreviations)
	blankNodeCounter int

	// Triples generated while parsing a term (blank node property lists,
	// collections) that belong before the triple currently being built.
	extra []*Triple

	lastTermWasPropertyList bool

	// Set when the last parsed term was the bare 'a' shorthand, which is only
	// legal in predicate position. An explicit rdf:type IRI is legal anywhere.
	lastTermWasKeywordA bool
}

// NewTurtleDecoder creates a Turtle decoder. baseNamespaces seeds the prefix
// table for the session; @prefix directives in the document shadow it.
func NewTurtleDecoder(input string, baseNamespaces map[string]string) *TurtleDecoder {
	prefixes := make(map[string]string, len(baseNamespaces))
	for p, ns := range baseNamespaces {
		prefixes[p] = ns
	}
	return &TurtleDecoder{
		input:    input,
		length:   len(input),
		prefixes: prefixes,
	}
}

// NewNTriplesDecoder creates a decoder that enforces strict N-Triples syntax.
func NewNTriplesDecoder(input string) *TurtleDecoder {
	return &TurtleDecoder{
		input:          input,
		length:         len(input),
		prefixes:       make(map[string]string),
		strictNTriples: true,
	}
}

// Prefixes returns the prefix table accumulated during decoding, for use as
// namespace hints when re-encoding. The map is owned by the decoder.
func (p *TurtleDecoder) Prefixes() map[string]string {
	return p.prefixes
}

// Decode parses the document and returns its triples. On error no triples are
// returned: a failed decode never yields a partial graph.
func (p *TurtleDecoder) Decode() ([]*Triple, error) {
	var triples []*Triple

	for p.pos < p.length {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			break
		}

		// @prefix must be lowercase; PREFIX is case-insensitive (SPARQL style).
		if p.matchExactKeyword("@prefix") || p.matchKeyword("PREFIX") {
			if p.strictNTriples {
				return nil, p.errorf("prefix directives are not allowed in N-Triples")
			}
			if err := p.parsePrefixDirective(); err != nil {
				return nil, err
			}
			continue
		}

		isTurtleBase := p.matchExactKeyword("@base")
		if isTurtleBase || p.matchKeyword("BASE") {
			if p.strictNTriples {
				return nil, p.errorf("base directives are not allowed in N-Triples")
			}
			if err := p.parseBaseDirective(isTurtleBase); err != nil {
				return nil, err
			}
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		triples = append(triples, stmt...)
	}

	return triples, nil
}

// errorf builds a ParseError with the line and column of the current position.
func (p *TurtleDecoder) errorf(format string, args ...any) error {
	return p.errorAt(p.pos, fmt.Errorf(format, args...))
}

func (p *TurtleDecoder) errorAt(pos int, cause error) error {
	if pos > p.length {
		pos = p.length
	}
	line := 1 + strings.Count(p.input[:pos], "\n")
	col := pos + 1
	if idx := strings.LastIndexByte(p.input[:pos], '\n'); idx >= 0 {
		col = pos - idx
	}
	return &ParseError{Line: line, Column: col, Reason: cause.Error(), Err: cause}
}

func (p *TurtleDecoder) skipWhitespaceAndComments() {
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			p.pos++
			continue
		}
		if ch == '#' {
			for p.pos < p.length && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

// matchKeyword consumes keyword at the current position (case-insensitive).
func (p *TurtleDecoder) matchKeyword(keyword string) bool {
	if p.pos+len(keyword) > p.length {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:p.pos+len(keyword)], keyword) {
		return false
	}
	if p.pos+len(keyword) < p.length {
		next := p.input[p.pos+len(keyword)]
		if isASCIIAlnum(next) {
			return false
		}
	}
	p.pos += len(keyword)
	return true
}

// matchExactKeyword consumes keyword at the current position (case-sensitive).
func (p *TurtleDecoder) matchExactKeyword(keyword string) bool {
	if p.pos+len(keyword) > p.length {
		return false
	}
	if p.input[p.pos:p.pos+len(keyword)] != keyword {
		return false
	}
	if p.pos+len(keyword) < p.length {
		next := p.input[p.pos+len(keyword)]
		if isASCIIAlnum(next) {
			return false
		}
	}
	p.pos += len(keyword)
	return true
}

func isASCIIAlnum(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func (p *TurtleDecoder) parsePrefixDirective() error {
	p.skipWhitespaceAndComments()

	prefixStart := p.pos
	for p.pos < p.length && p.input[p.pos] != ':' && !isWhitespace(p.input[p.pos]) {
		p.pos++
	}
	prefix := p.input[prefixStart:p.pos]

	p.skipWhitespaceAndComments()
	if p.pos >= p.length || p.input[p.pos] != ':' {
		return p.errorf("expected ':' after prefix name %q", prefix)
	}
	p.pos++ // ':'

	p.skipWhitespaceAndComments()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}

	p.prefixes[prefix] = iri

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == '.' {
		p.pos++
	}
	return nil
}

func (p *TurtleDecoder) parseBaseDirective(isTurtleStyle bool) error {
	p.skipWhitespaceAndComments()

	base, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.base = base

	p.skipWhitespaceAndComments()
	if p.pos < p.length && p.input[p.pos] == '.' {
		if !isTurtleStyle {
			return p.errorf("SPARQL-style BASE must not be followed by '.'")
		}
		p.pos++
	}
	return nil
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// parseStatement parses one subject with its predicate-object list, including
// the ';' (repeat subject) and ',' (repeat subject+predicate) continuations.
func (p *TurtleDecoder) parseStatement() ([]*Triple, error) {
	var triples []*Triple

	subject, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, ok := subject.(*Literal); ok {
		return nil, p.errorf("literals cannot be used as subjects")
	}
	if p.lastTermWasKeywordA {
		return nil, p.errorf("keyword 'a' cannot be used as subject")
	}
	triples = append(triples, p.extra...)
	p.extra = nil

	// A sole blank node property list may form a statement on its own:
	// [ <p> <o> ] .
	p.skipWhitespaceAndComments()
	if p.lastTermWasPropertyList && p.pos < p.length && p.input[p.pos] == '.' {
		p.pos++
		return triples, nil
	}

	for {
		p.skipWhitespaceAndComments()

		predicate, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		switch predicate.(type) {
		case *Literal:
			return nil, p.errorf("literals cannot be used as predicates")
		case *BlankNode:
			return nil, p.errorf("blank nodes cannot be used as predicates")
		}
		triples = append(triples, p.extra...)
		p.extra = nil

		for {
			p.skipWhitespaceAndComments()

			object, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if p.lastTermWasKeywordA {
				return nil, p.errorf("keyword 'a' cannot be used as object")
			}
			triples = append(triples, p.extra...)
			p.extra = nil

			triples = append(triples, NewTriple(subject, predicate, object))

			p.skipWhitespaceAndComments()
			if p.pos < p.length && p.input[p.pos] == ',' {
				if p.strictNTriples {
					return nil, p.errorf("',' abbreviation is not allowed in N-Triples")
				}
				p.pos++
				continue
			}
			break
		}

		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] == ';' {
			if p.strictNTriples {
				return nil, p.errorf("';' abbreviation is not allowed in N-Triples")
			}
			// Repeated semicolons are permitted.
			for p.pos < p.length && p.input[p.pos] == ';' {
				p.pos++
				p.skipWhitespaceAndComments()
			}
			if p.pos < p.length && p.input[p.pos] != '.' {
				continue
			}
		}
		break
	}

	if p.pos >= p.length || p.input[p.pos] != '.' {
		return nil, p.errorf("expected '.' at end of statement")
	}
	p.pos++
	return triples, nil
}

func (p *TurtleDecoder) parseTerm() (Term, error) {
	p.skipWhitespaceAndComments()
	p.lastTermWasPropertyList = false
	p.lastTermWasKeywordA = false

	if p.pos >= p.length {
		return nil, p.errorf("unexpected end of input")
	}

	ch := p.input[p.pos]

	if ch == '<' {
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		return NewIRI(iri), nil
	}

	if ch == '_' && p.pos+1 < p.length && p.input[p.pos+1] == ':' {
		return p.parseBlankNodeLabel()
	}

	if ch == '[' {
		if p.strictNTriples {
			return nil, p.errorf("anonymous blank nodes are not allowed in N-Triples")
		}
		return p.parsePropertyList()
	}

	if ch == '(' {
		if p.strictNTriples {
			return nil, p.errorf("collections are not allowed in N-Triples")
		}
		return p.parseCollection()
	}

	if ch == '"' || ch == '\'' {
		return p.parseLiteral()
	}

	if p.startsNumber() {
		if p.strictNTriples {
			return nil, p.errorf("bare numeric literals are not allowed in N-Triples")
		}
		return p.parseNumber()
	}

	// 'a' shorthand for rdf:type, only when not the start of a prefixed name.
	if ch == 'a' {
		standalone := true
		if p.pos+1 < p.length {
			next, _ := utf8.DecodeRuneInString(p.input[p.pos+1:])
			if isNameChar(next) || next == ':' {
				standalone = false
			}
		}
		if standalone {
			if p.strictNTriples {
				return nil, p.errorf("'a' abbreviation is not allowed in N-Triples")
			}
			p.pos++
			p.lastTermWasKeywordA = true
			return NewIRI(RDFType.Value), nil
		}
	}

	if p.matchExactKeyword("true") {
		if p.strictNTriples {
			return nil, p.errorf("bare boolean literals are not allowed in N-Triples")
		}
		return NewBooleanLiteral(true), nil
	}
	if p.matchExactKeyword("false") {
		if p.strictNTriples {
			return nil, p.errorf("bare boolean literals are not allowed in N-Triples")
		}
		return NewBooleanLiteral(false), nil
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	if isNameStartChar(r) || ch == ':' {
		if p.strictNTriples {
			return nil, p.errorf("prefixed names are not allowed in N-Triples")
		}
		return p.parsePrefixedName()
	}

	return nil, p.errorf("unexpected character %q", ch)
}

func (p *TurtleDecoder) startsNumber() bool {
	ch := p.input[p.pos]
	if ch >= '0' && ch <= '9' {
		return true
	}
	if ch == '+' || ch == '-' {
		if p.pos+1 < p.length {
			next := p.input[p.pos+1]
			if next >= '0' && next <= '9' {
				return true
			}
			if next == '.' && p.pos+2 < p.length && p.input[p.pos+2] >= '0' && p.input[p.pos+2] <= '9' {
				return true
			}
		}
		return false
	}
	if ch == '.' {
		return p.pos+1 < p.length && p.input[p.pos+1] >= '0' && p.input[p.pos+1] <= '9'
	}
	return false
}

// parseIRIRef parses <...>, processes \u and \U escapes, and resolves the
// result against the session base.
func (p *TurtleDecoder) parseIRIRef() (string, error) {
	if p.pos >= p.length || p.input[p.pos] != '<' {
		return "", p.errorf("expected '<' at start of IRI")
	}
	start := p.pos
	p.pos++

	var sb strings.Builder
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == '>' {
			p.pos++
			return p.resolveIRI(sb.String(), start)
		}
		if ch == '\n' || ch == '\r' {
			return "", p.errorAt(p.pos, fmt.Errorf("unterminated IRI"))
		}
		if ch == '\\' {
			r, err := p.parseUnicodeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte(ch)
		p.pos++
	}
	return "", p.errorAt(start, fmt.Errorf("unterminated IRI"))
}

// parseUnicodeEscape consumes \uXXXX or \UXXXXXXXX at p.pos.
func (p *TurtleDecoder) parseUnicodeEscape() (rune, error) {
	escStart := p.pos
	p.pos++ // '\'
	if p.pos >= p.length {
		return 0, p.errorAt(escStart, fmt.Errorf("truncated escape sequence"))
	}
	var digits int
	switch p.input[p.pos] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, p.errorAt(escStart, fmt.Errorf("invalid escape '\\%c' in IRI", p.input[p.pos]))
	}
	p.pos++
	if p.pos+digits > p.length {
		return 0, p.errorAt(escStart, fmt.Errorf("truncated unicode escape"))
	}
	var code rune
	for i := 0; i < digits; i++ {
		code = code << 4
		ch := p.input[p.pos+i]
		switch {
		case ch >= '0' && ch <= '9':
			code |= rune(ch - '0')
		case ch >= 'a' && ch <= 'f':
			code |= rune(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			code |= rune(ch-'A') + 10
		default:
			return 0, p.errorAt(escStart, fmt.Errorf("invalid hex digit %q in unicode escape", ch))
		}
	}
	p.pos += digits
	return code, nil
}

// resolveIRI resolves a possibly-relative IRI against the session base.
func (p *TurtleDecoder) resolveIRI(iri string, at int) (string, error) {
	if hasIRIScheme(iri) {
		return iri, nil
	}
	if p.base == "" {
		return "", p.errorAt(at, &ResolutionError{IRI: iri})
	}
	if strings.HasPrefix(iri, "#") {
		return strings.TrimSuffix(p.base, "#") + iri, nil
	}
	if strings.HasSuffix(p.base, "/") || strings.HasSuffix(p.base, "#") {
		return p.base + iri, nil
	}
	// Replace the last path segment, RFC 3986 merge-path style.
	if idx := strings.LastIndexByte(p.base, '/'); idx >= 0 {
		return p.base[:idx+1] + iri, nil
	}
	return p.base + iri, nil
}

func hasIRIScheme(iri string) bool {
	for i := 0; i < len(iri); i++ {
		ch := iri[i]
		if ch == ':' {
			return i > 0
		}
		if !isASCIIAlnum(ch) && ch != '+' && ch != '-' && ch != '.' {
			return false
		}
	}
	return false
}

func (p *TurtleDecoder) parseBlankNodeLabel() (Term, error) {
	p.pos += 2 // "_:"
	start := p.pos
	for p.pos < p.length {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !isNameChar(r) && r != '.' {
			break
		}
		// A '.' terminates the label when it ends the statement.
		if r == '.' {
			if p.pos+size >= p.length {
				break
			}
			next, _ := utf8.DecodeRuneInString(p.input[p.pos+size:])
			if !isNameChar(next) {
				break
			}
		}
		p.pos += size
	}
	if p.pos == start {
		return nil, p.errorf("empty blank node label")
	}
	return NewBlankNode(p.input[start:p.pos]), nil
}

func (p *TurtleDecoder) newBlankNode() *BlankNode {
	p.blankNodeCounter++
	return NewBlankNode(fmt.Sprintf("b%d", p.blankNodeCounter))
}

// parsePropertyList parses '[]' or '[ p o ; ... ]', emitting the inner
// triples through p.extra and returning the generated blank node.
func (p *TurtleDecoder) parsePropertyList() (Term, error) {
	p.pos++ // '['
	p.skipWhitespaceAndComments()

	node := p.newBlankNode()

	if p.pos < p.length && p.input[p.pos] == ']' {
		p.pos++
		return node, nil
	}

	for {
		p.skipWhitespaceAndComments()

		predicate, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		switch predicate.(type) {
		case *Literal, *BlankNode:
			return nil, p.errorf("invalid predicate inside blank node property list")
		}

		for {
			p.skipWhitespaceAndComments()
			object, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			p.extra = append(p.extra, NewTriple(node, predicate, object))

			p.skipWhitespaceAndComments()
			if p.pos < p.length && p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}

		p.skipWhitespaceAndComments()
		if p.pos < p.length && p.input[p.pos] == ';' {
			for p.pos < p.length && p.input[p.pos] == ';' {
				p.pos++
				p.skipWhitespaceAndComments()
			}
			if p.pos < p.length && p.input[p.pos] != ']' {
				continue
			}
		}
		break
	}

	if p.pos >= p.length || p.input[p.pos] != ']' {
		return nil, p.errorf("expected ']' at end of blank node property list")
	}
	p.pos++
	p.lastTermWasPropertyList = true
	return node, nil
}

// parseCollection parses '( item* )' into an rdf:first/rdf:rest chain and
// returns the list head (rdf:nil for the empty collection).
func (p *TurtleDecoder) parseCollection() (Term, error) {
	p.pos++ // '('
	rdfFirst := NewIRI(RDFNamespace + "first")
	rdfRest := NewIRI(RDFNamespace + "rest")
	rdfNil := NewIRI(RDFNamespace + "nil")

	var head Term
	var tail *BlankNode

	for {
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			return nil, p.errorf("unterminated collection")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			break
		}

		item, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		cell := p.newBlankNode()
		if head == nil {
			head = cell
		} else {
			p.extra = append(p.extra, NewTriple(tail, rdfRest, cell))
		}
		p.extra = append(p.extra, NewTriple(cell, rdfFirst, item))
		tail = cell
	}

	if head == nil {
		return rdfNil, nil
	}
	p.extra = append(p.extra, NewTriple(tail, rdfRest, rdfNil))
	return head, nil
}

// parseLiteral parses a quoted literal with its optional language tag or
// datatype annotation.
func (p *TurtleDecoder) parseLiteral() (Term, error) {
	value, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	// Language tag
	if p.pos < p.length && p.input[p.pos] == '@' {
		p.pos++
		start := p.pos
		for p.pos < p.length {
			ch := p.input[p.pos]
			if isASCIIAlnum(ch) || ch == '-' {
				p.pos++
				continue
			}
			break
		}
		if p.pos == start {
			return nil, p.errorf("empty language tag")
		}
		return NewLiteralWithLanguage(value, p.input[start:p.pos]), nil
	}

	// Datatype
	if p.pos+1 < p.length && p.input[p.pos] == '^' && p.input[p.pos+1] == '^' {
		p.pos += 2
		p.skipWhitespaceAndComments()
		if p.pos >= p.length {
			return nil, p.errorf("expected datatype IRI after '^^'")
		}
		if p.input[p.pos] == '<' {
			iri, err := p.parseIRIRef()
			if err != nil {
				return nil, err
			}
			return NewLiteralWithDatatype(value, NewIRI(iri)), nil
		}
		if p.strictNTriples {
			return nil, p.errorf("datatype must be a full IRI in N-Triples")
		}
		dt, err := p.parsePrefixedName()
		if err != nil {
			return nil, err
		}
		return NewLiteralWithDatatype(value, dt.(*IRI)), nil
	}

	return NewLiteral(value), nil
}

// parseQuotedString handles "...", '...', and the long forms """...""" and
// '''...''' with the full Turtle escape set.
func (p *TurtleDecoder) parseQuotedString() (string, error) {
	quote := p.input[p.pos]
	start := p.pos

	if p.strictNTriples && quote == '\'' {
		return "", p.errorf("single-quoted literals are not allowed in N-Triples")
	}

	// Two more quote marks after the opener begin a long string. The empty
	// short string "" is followed by at most one quote mark.
	long := !p.strictNTriples &&
		p.pos+2 < p.length && p.input[p.pos+1] == quote && p.input[p.pos+2] == quote

	if long {
		closer := strings.Repeat(string(quote), 3)
		p.pos += 3
		var sb strings.Builder
		for p.pos < p.length {
			if strings.HasPrefix(p.input[p.pos:], closer) {
				// Longest match: quote marks directly before the closer are
				// part of the content.
				if p.pos+3 < p.length && p.input[p.pos+3] == quote {
					sb.WriteByte(quote)
					p.pos++
					continue
				}
				p.pos += 3
				return sb.String(), nil
			}
			if p.input[p.pos] == '\\' {
				s, err := p.parseStringEscape()
				if err != nil {
					return "", err
				}
				sb.WriteString(s)
				continue
			}
			sb.WriteByte(p.input[p.pos])
			p.pos++
		}
		return "", p.errorAt(start, fmt.Errorf("unterminated long string literal"))
	}

	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return sb.String(), nil
		}
		if ch == '\n' || ch == '\r' {
			return "", p.errorAt(p.pos, fmt.Errorf("newline in short string literal"))
		}
		if ch == '\\' {
			s, err := p.parseStringEscape()
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			continue
		}
		sb.WriteByte(ch)
		p.pos++
	}
	return "", p.errorAt(start, fmt.Errorf("unterminated string literal"))
}

// parseStringEscape consumes one backslash escape inside a string literal.
func (p *TurtleDecoder) parseStringEscape() (string, error) {
	escStart := p.pos
	if p.pos+1 >= p.length {
		return "", p.errorAt(escStart, fmt.Errorf("truncated escape sequence"))
	}
	switch p.input[p.pos+1] {
	case 't':
		p.pos += 2
		return "\t", nil
	case 'b':
		p.pos += 2
		return "\b", nil
	case 'n':
		p.pos += 2
		return "\n", nil
	case 'r':
		p.pos += 2
		return "\r", nil
	case 'f':
		p.pos += 2
		return "\f", nil
	case '"':
		p.pos += 2
		return `"`, nil
	case '\'':
		p.pos += 2
		return "'", nil
	case '\\':
		p.pos += 2
		return `\`, nil
	case 'u', 'U':
		r, err := p.parseUnicodeEscape()
		if err != nil {
			return "", err
		}
		return string(r), nil
	default:
		return "", p.errorAt(escStart, fmt.Errorf("invalid escape '\\%c'", p.input[p.pos+1]))
	}
}

// parseNumber parses a bare numeric literal and assigns the XSD datatype the
// Turtle grammar implies (integer, decimal, or double).
func (p *TurtleDecoder) parseNumber() (Term, error) {
	start := p.pos
	if p.input[p.pos] == '+' || p.input[p.pos] == '-' {
		p.pos++
	}
	hasDot := false
	hasExp := false
	for p.pos < p.length {
		ch := p.input[p.pos]
		if ch >= '0' && ch <= '9' {
			p.pos++
			continue
		}
		if ch == '.' && !hasDot && !hasExp {
			// A trailing dot belongs to the statement, not the number.
			if p.pos+1 >= p.length || p.input[p.pos+1] < '0' || p.input[p.pos+1] > '9' {
				break
			}
			hasDot = true
			p.pos++
			continue
		}
		if (ch == 'e' || ch == 'E') && !hasExp {
			hasExp = true
			p.pos++
			if p.pos < p.length && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
				p.pos++
			}
			continue
		}
		break
	}
	lexical := p.input[start:p.pos]
	if lexical == "" || lexical == "+" || lexical == "-" {
		return nil, p.errorAt(start, fmt.Errorf("malformed numeric literal"))
	}
	switch {
	case hasExp:
		return NewLiteralWithDatatype(lexical, XSDDouble), nil
	case hasDot:
		return NewLiteralWithDatatype(lexical, XSDDecimal), nil
	default:
		return NewLiteralWithDatatype(lexical, XSDInteger), nil
	}
}

// parsePrefixedName resolves prefix:local against the session prefix table.
// Resolution happens here, at parse time; unknown prefixes are an error.
func (p *TurtleDecoder) parsePrefixedName() (Term, error) {
	start := p.pos
	for p.pos < p.length && p.input[p.pos] != ':' {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !isNameChar(r) {
			return nil, p.errorAt(start, fmt.Errorf("expected ':' in prefixed name"))
		}
		p.pos += size
	}
	if p.pos >= p.length {
		return nil, p.errorAt(start, fmt.Errorf("expected ':' in prefixed name"))
	}
	prefix := p.input[start:p.pos]
	p.pos++ // ':'

	localStart := p.pos
	for p.pos < p.length {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if r == '.' {
			// Dots are allowed inside local names but a final '.' ends the
			// statement.
			if p.pos+size >= p.length {
				break
			}
			next, _ := utf8.DecodeRuneInString(p.input[p.pos+size:])
			if !isNameChar(next) {
				break
			}
			p.pos += size
			continue
		}
		if !isNameChar(r) {
			break
		}
		p.pos += size
	}
	local := p.input[localStart:p.pos]

	ns, ok := p.prefixes[prefix]
	if !ok {
		return nil, p.errorAt(start, &ResolutionError{Prefix: prefix})
	}
	return NewIRI(ns + local), nil
}

// isNameStartChar matches PN_CHARS_BASE plus '_' from the Turtle grammar.
func isNameStartChar(r rune) bool {
	return r == '_' ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00D6) ||
		(r >= 0x00D8 && r <= 0x00F6) ||
		(r >= 0x00F8 && r <= 0x02FF) ||
		(r >= 0x0370 && r <= 0x037D) ||
		(r >= 0x037F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isNameChar matches PN_CHARS from the Turtle grammar.
func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		r == '-' ||
		(r >= '0' && r <= '9') ||
		r == 0x00B7 ||
		(r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x203F && r <= 0x2040)
}
