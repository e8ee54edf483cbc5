package sparql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kitegraph/kite/pkg/rdf"
)

// Parser parses queries by position scanning over the input
type Parser struct {
	input    string
	pos      int
	length   int
	prefixes map[string]string // Maps prefix to IRI
}

// NewParser creates a new query parser
func NewParser(input string) *Parser {
	return &Parser{
		input:    input,
		pos:      0,
		length:   len(input),
		prefixes: make(map[string]string),
	}
}

// Parse parses a query string into its AST form.
func Parse(input string) (*Query, error) {
	return NewParser(input).Parse()
}

// Parse parses the query
func (p *Parser) Parse() (*Query, error) {
	p.skipWhitespace()

	// PREFIX declarations come first
	for p.matchKeyword("PREFIX") {
		if err := p.parsePrefixDecl(); err != nil {
			return nil, err
		}
	}

	queryType, err := p.parseQueryType()
	if err != nil {
		return nil, err
	}

	query := &Query{Type: queryType}

	switch queryType {
	case QueryTypeSelect:
		query.Select, err = p.parseSelect()
	case QueryTypeAsk:
		query.Ask, err = p.parseAsk()
	case QueryTypeConstruct:
		query.Construct, err = p.parseConstruct()
	case QueryTypeDescribe:
		query.Describe, err = p.parseDescribe()
	}
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.pos < p.length {
		return nil, p.errorf("unexpected input after query")
	}

	return query, nil
}

// parseQueryType determines the query form
func (p *Parser) parseQueryType() (QueryType, error) {
	p.skipWhitespace()

	if p.matchKeyword("SELECT") {
		return QueryTypeSelect, nil
	}
	if p.matchKeyword("CONSTRUCT") {
		return QueryTypeConstruct, nil
	}
	if p.matchKeyword("ASK") {
		return QueryTypeAsk, nil
	}
	if p.matchKeyword("DESCRIBE") {
		return QueryTypeDescribe, nil
	}

	return 0, p.errorf("expected query form (SELECT, CONSTRUCT, ASK, DESCRIBE)")
}

// parseSelect parses a SELECT query
func (p *Parser) parseSelect() (*SelectQuery, error) {
	query := &SelectQuery{}

	variables, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	query.Variables = variables

	// WHERE keyword is optional before the group
	p.matchKeyword("WHERE")

	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}
	query.Where = where

	if p.matchKeyword("LIMIT") {
		limit, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, p.errorf("LIMIT must be non-negative")
		}
		query.Limit = &limit
	}

	return query, nil
}

// parseAsk parses an ASK query
func (p *Parser) parseAsk() (*AskQuery, error) {
	p.matchKeyword("WHERE")

	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}

	return &AskQuery{Where: where}, nil
}

// parseConstruct parses a CONSTRUCT query
func (p *Parser) parseConstruct() (*ConstructQuery, error) {
	template, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}

	if !p.matchKeyword("WHERE") {
		return nil, p.errorf("expected WHERE after CONSTRUCT template")
	}

	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return nil, err
	}

	return &ConstructQuery{Template: template, Where: where}, nil
}

// parseDescribe parses a DESCRIBE query naming a single resource
func (p *Parser) parseDescribe() (*DescribeQuery, error) {
	p.skipWhitespace()

	var iri string
	var err error
	if p.peek() == '<' {
		iri, err = p.parseIRI()
	} else {
		iri, err = p.parsePrefixedName()
	}
	if err != nil {
		return nil, err
	}

	return &DescribeQuery{Resource: rdf.NewIRI(iri)}, nil
}

// parseProjection parses the projection (variables or *)
func (p *Parser) parseProjection() ([]*Variable, error) {
	p.skipWhitespace()

	if p.peek() == '*' {
		p.advance()
		return nil, nil // nil means SELECT *
	}

	var variables []*Variable
	for {
		p.skipWhitespace()
		if p.peek() != '?' && p.peek() != '$' {
			break
		}
		variable, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		variables = append(variables, variable)
	}

	if len(variables) == 0 {
		return nil, p.errorf("expected at least one variable or *")
	}

	return variables, nil
}

// parseGroupGraphPattern parses { pattern . pattern ... }
func (p *Parser) parseGroupGraphPattern() ([]*TriplePattern, error) {
	p.skipWhitespace()

	if p.peek() != '{' {
		return nil, p.errorf("expected '{' to start graph pattern")
	}
	p.advance() // consume '{'

	var patterns []*TriplePattern
	for {
		p.skipWhitespace()

		if p.peek() == '}' {
			p.advance()
			break
		}
		if p.pos >= p.length {
			return nil, p.errorf("unterminated graph pattern")
		}

		triples, err := p.parseTriplePatterns()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, triples...)

		p.skipWhitespace()
		if p.peek() == '.' {
			p.advance()
		}
	}

	return patterns, nil
}

// parseTriplePatterns parses triple patterns with property list shorthand
// (semicolon repeats the subject, comma repeats subject and predicate)
func (p *Parser) parseTriplePatterns() ([]*TriplePattern, error) {
	var triples []*TriplePattern

	firstTriple, err := p.parseTriplePattern()
	if err != nil {
		return nil, err
	}
	triples = append(triples, firstTriple)

	for {
		p.skipWhitespace()
		ch := p.peek()

		if ch == ',' {
			p.advance()
			p.skipWhitespace()

			object, err := p.parseTermOrVariable()
			if err != nil {
				return nil, err
			}
			triples = append(triples, &TriplePattern{
				Subject:   firstTriple.Subject,
				Predicate: firstTriple.Predicate,
				Object:    *object,
			})

		} else if ch == ';' {
			p.advance()
			p.skipWhitespace()

			// Trailing semicolon before '.' or '}'
			if p.peek() == '.' || p.peek() == '}' {
				break
			}

			predicate, err := p.parseTermOrVariable()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			object, err := p.parseTermOrVariable()
			if err != nil {
				return nil, err
			}

			triple := &TriplePattern{
				Subject:   firstTriple.Subject,
				Predicate: *predicate,
				Object:    *object,
			}
			triples = append(triples, triple)
			firstTriple = triple

		} else {
			break
		}
	}

	return triples, nil
}

// parseTriplePattern parses a single subject predicate object pattern
func (p *Parser) parseTriplePattern() (*TriplePattern, error) {
	subject, err := p.parseTermOrVariable()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	predicate, err := p.parseTermOrVariable()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	object, err := p.parseTermOrVariable()
	if err != nil {
		return nil, err
	}

	return &TriplePattern{
		Subject:   *subject,
		Predicate: *predicate,
		Object:    *object,
	}, nil
}

// parseTermOrVariable parses either a ground RDF term or a variable
func (p *Parser) parseTermOrVariable() (*TermOrVariable, error) {
	p.skipWhitespace()

	ch := p.peek()

	// Variable
	if ch == '?' || ch == '$' {
		variable, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		return &TermOrVariable{Variable: variable}, nil
	}

	// IRI
	if ch == '<' {
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return &TermOrVariable{Term: rdf.NewIRI(iri)}, nil
	}

	// String literal
	if ch == '"' || ch == '\'' {
		literal, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &TermOrVariable{Term: literal}, nil
	}

	// Blank node
	if ch == '_' {
		blankNode, err := p.parseBlankNode()
		if err != nil {
			return nil, err
		}
		return &TermOrVariable{Term: blankNode}, nil
	}

	// Numeric literal
	if ch >= '0' && ch <= '9' || ch == '-' || ch == '+' {
		return &TermOrVariable{Term: p.parseNumericLiteral()}, nil
	}

	// Keyword 'a' (shorthand for rdf:type), only when not a prefixed name
	if ch == 'a' && !p.isNameCharAt(p.pos+1) {
		p.advance()
		return &TermOrVariable{Term: rdf.RDFType}, nil
	}

	// Boolean keywords
	if p.matchExactWord("true") {
		return &TermOrVariable{Term: rdf.NewBooleanLiteral(true)}, nil
	}
	if p.matchExactWord("false") {
		return &TermOrVariable{Term: rdf.NewBooleanLiteral(false)}, nil
	}

	// Prefixed name
	if ch == ':' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		iri, err := p.parsePrefixedName()
		if err != nil {
			return nil, err
		}
		return &TermOrVariable{Term: rdf.NewIRI(iri)}, nil
	}

	if ch == 0 {
		return nil, p.errorf("unexpected end of query")
	}
	return nil, p.errorf("unexpected character %q", ch)
}

// parseVariable parses a variable (?name or $name)
func (p *Parser) parseVariable() (*Variable, error) {
	if p.peek() != '?' && p.peek() != '$' {
		return nil, p.errorf("expected variable starting with ? or $")
	}
	p.advance()

	name := p.readWhile(func(ch byte) bool {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_'
	})

	if name == "" {
		return nil, p.errorf("invalid variable name")
	}

	return &Variable{Name: name}, nil
}

// parseIRI parses an IRI enclosed in < >
func (p *Parser) parseIRI() (string, error) {
	if p.peek() != '<' {
		return "", p.errorf("expected '<' to start IRI")
	}
	p.advance()

	iri := p.readWhile(func(ch byte) bool {
		return ch != '>' && ch != '\n'
	})

	if p.peek() != '>' {
		return "", p.errorf("expected '>' to end IRI")
	}
	p.advance()

	return iri, nil
}

// parseStringLiteral parses a quoted string with optional @lang or ^^datatype
func (p *Parser) parseStringLiteral() (*rdf.Literal, error) {
	quote := p.peek()
	p.advance()

	var value strings.Builder
	for {
		if p.pos >= p.length {
			return nil, p.errorf("unterminated string literal")
		}
		ch := p.input[p.pos]
		if ch == quote {
			p.advance()
			break
		}
		if ch == '\\' {
			if p.pos+1 >= p.length {
				return nil, p.errorf("unterminated escape sequence")
			}
			p.advance()
			switch p.input[p.pos] {
			case 't':
				value.WriteByte('\t')
			case 'n':
				value.WriteByte('\n')
			case 'r':
				value.WriteByte('\r')
			case '"', '\'', '\\':
				value.WriteByte(p.input[p.pos])
			default:
				return nil, p.errorf("unsupported escape \\%c", p.input[p.pos])
			}
			p.advance()
			continue
		}
		value.WriteByte(ch)
		p.advance()
	}

	// Language tag
	if p.peek() == '@' {
		p.advance()
		lang := p.readWhile(func(ch byte) bool {
			return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
				(ch >= '0' && ch <= '9') || ch == '-'
		})
		if lang == "" {
			return nil, p.errorf("expected language tag after '@'")
		}
		return rdf.NewLiteralWithLanguage(value.String(), lang), nil
	}

	// Datatype
	if p.pos+1 < p.length && p.input[p.pos] == '^' && p.input[p.pos+1] == '^' {
		p.advance()
		p.advance()
		var iri string
		var err error
		if p.peek() == '<' {
			iri, err = p.parseIRI()
		} else {
			iri, err = p.parsePrefixedName()
		}
		if err != nil {
			return nil, err
		}
		return rdf.NewLiteralWithDatatype(value.String(), rdf.NewIRI(iri)), nil
	}

	return rdf.NewLiteral(value.String()), nil
}

// parseBlankNode parses a blank node label
func (p *Parser) parseBlankNode() (*rdf.BlankNode, error) {
	p.advance() // consume '_'
	if p.peek() != ':' {
		return nil, p.errorf("expected ':' after '_' in blank node")
	}
	p.advance()

	id := p.readWhile(func(ch byte) bool {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_'
	})
	if id == "" {
		return nil, p.errorf("expected blank node label")
	}

	return rdf.NewBlankNode(id), nil
}

// parseNumericLiteral parses an integer, decimal or double literal
func (p *Parser) parseNumericLiteral() *rdf.Literal {
	numStr := p.readWhile(func(ch byte) bool {
		return (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == '+' || ch == 'e' || ch == 'E'
	})

	if !strings.ContainsAny(numStr, ".eE") {
		if _, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			return rdf.NewLiteralWithDatatype(numStr, rdf.XSDInteger)
		}
	}
	if !strings.ContainsAny(numStr, "eE") && strings.Contains(numStr, ".") {
		return rdf.NewLiteralWithDatatype(numStr, rdf.XSDDecimal)
	}
	return rdf.NewLiteralWithDatatype(numStr, rdf.XSDDouble)
}

// parsePrefixDecl parses prefix: <iri> after the PREFIX keyword
func (p *Parser) parsePrefixDecl() error {
	p.skipWhitespace()

	prefix := p.readWhile(func(ch byte) bool {
		return ch != ':' && ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r'
	})
	if p.peek() != ':' {
		return p.errorf("expected ':' in PREFIX declaration")
	}
	p.advance()

	p.skipWhitespace()
	iri, err := p.parseIRI()
	if err != nil {
		return err
	}

	p.prefixes[prefix] = iri
	p.skipWhitespace()
	return nil
}

// parsePrefixedName parses prefix:local and expands it against the declared
// prefixes. An unknown prefix is an error, never a silent empty result.
func (p *Parser) parsePrefixedName() (string, error) {
	start := p.pos
	prefix := p.readWhile(func(ch byte) bool {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '-'
	})

	if p.peek() != ':' {
		p.pos = start
		return "", p.errorf("expected ':' in prefixed name")
	}
	p.advance()

	local := p.readWhile(func(ch byte) bool {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch == '.'
	})
	// A trailing '.' is a statement separator, not part of the name
	for strings.HasSuffix(local, ".") {
		local = local[:len(local)-1]
		p.pos--
	}

	namespace, ok := p.prefixes[prefix]
	if !ok {
		return "", &QueryError{
			Fragment: prefix + ":" + local,
			Reason:   "undefined prefix '" + prefix + "'",
		}
	}

	return namespace + local, nil
}

func (p *Parser) parseInteger() (int, error) {
	p.skipWhitespace()

	numStr := p.readWhile(func(ch byte) bool {
		return ch >= '0' && ch <= '9'
	})
	if numStr == "" {
		return 0, p.errorf("expected integer")
	}

	return strconv.Atoi(numStr)
}

// Helper methods

func (p *Parser) peek() byte {
	if p.pos >= p.length {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) advance() {
	if p.pos < p.length {
		p.pos++
	}
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.length {
		ch := p.input[p.pos]

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			p.pos++
			continue
		}

		// Comments run from # to end of line
		if ch == '#' {
			for p.pos < p.length && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}

		break
	}
}

func (p *Parser) readWhile(predicate func(byte) bool) string {
	start := p.pos
	for p.pos < p.length && predicate(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *Parser) matchKeyword(keyword string) bool {
	p.skipWhitespace()

	// Case-insensitive match on a word boundary
	remaining := p.input[p.pos:]
	pattern := `(?i)^` + regexp.QuoteMeta(keyword) + `\b`
	matched, _ := regexp.MatchString(pattern, remaining)

	if matched {
		p.pos += len(keyword)
		return true
	}
	return false
}

// matchExactWord matches a case-sensitive keyword not followed by a name
// character.
func (p *Parser) matchExactWord(word string) bool {
	if p.pos+len(word) > p.length {
		return false
	}
	if p.input[p.pos:p.pos+len(word)] != word {
		return false
	}
	if p.isNameCharAt(p.pos + len(word)) {
		return false
	}
	p.pos += len(word)
	return true
}

func (p *Parser) isNameCharAt(pos int) bool {
	if pos >= p.length {
		return false
	}
	ch := p.input[pos]
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch == ':'
}

// errorf builds a QueryError carrying the input fragment at the current
// position.
func (p *Parser) errorf(format string, args ...interface{}) *QueryError {
	end := p.pos + 24
	if end > p.length {
		end = p.length
	}
	fragment := strings.TrimSpace(p.input[p.pos:end])
	return &QueryError{
		Fragment: fragment,
		Reason:   fmt.Sprintf(format, args...),
	}
}
