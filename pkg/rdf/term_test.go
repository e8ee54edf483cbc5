package rdf

import (
	"testing"
)

func TestLiteral_LanguageAndDatatypeAreExclusive(t *testing.T) {
	lit := &Literal{
		Value:    "hello",
		Language: "en",
		Datatype: XSDString,
	}
	if err := lit.Validate(); err == nil {
		t.Fatal("Expected validation error for literal with both language and datatype")
	}

	plain := NewLiteral("hello")
	if err := plain.Validate(); err != nil {
		t.Fatalf("Plain literal should validate: %v", err)
	}
	lang := NewLiteralWithLanguage("hello", "en")
	if err := lang.Validate(); err != nil {
		t.Fatalf("Language literal should validate: %v", err)
	}
	typed := NewLiteralWithDatatype("5", XSDInteger)
	if err := typed.Validate(); err != nil {
		t.Fatalf("Typed literal should validate: %v", err)
	}
}

func TestTerm_StructuralEquality(t *testing.T) {
	if !NewIRI("http://example.org/a").Equals(NewIRI("http://example.org/a")) {
		t.Error("Equal IRIs should be equal")
	}
	if NewIRI("http://example.org/a").Equals(NewIRI("http://example.org/b")) {
		t.Error("Different IRIs should not be equal")
	}
	if NewIRI("http://example.org/a").Equals(NewLiteral("http://example.org/a")) {
		t.Error("IRI and literal with the same text should not be equal")
	}
	if !NewBlankNode("b1").Equals(NewBlankNode("b1")) {
		t.Error("Equal blank nodes should be equal")
	}
	if !NewLiteralWithLanguage("hi", "en").Equals(NewLiteralWithLanguage("hi", "en")) {
		t.Error("Equal language literals should be equal")
	}
	if NewLiteralWithLanguage("hi", "en").Equals(NewLiteralWithLanguage("hi", "fr")) {
		t.Error("Literals with different languages should not be equal")
	}
	if NewLiteralWithDatatype("5", XSDInteger).Equals(NewLiteral("5")) {
		t.Error("Typed and plain literals should not be equal")
	}
}

func TestTerm_CanonicalForm(t *testing.T) {
	tests := []struct {
		term     Term
		expected string
	}{
		{NewIRI("http://example.org/a"), "<http://example.org/a>"},
		{NewBlankNode("b1"), "_:b1"},
		{NewLiteral("hello"), `"hello"`},
		{NewLiteralWithLanguage("hello", "en"), `"hello"@en`},
		{NewLiteralWithDatatype("5", XSDInteger), `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`},
	}

	for _, tt := range tests {
		if got := tt.term.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestCompareTerms_TotalOrdering(t *testing.T) {
	// IRIs sort before blank nodes, blank nodes before literals
	iri := NewIRI("http://example.org/z")
	blank := NewBlankNode("a")
	lit := NewLiteral("a")

	if CompareTerms(iri, blank) >= 0 {
		t.Error("IRI should sort before blank node")
	}
	if CompareTerms(blank, lit) >= 0 {
		t.Error("Blank node should sort before literal")
	}
	if CompareTerms(iri, lit) >= 0 {
		t.Error("IRI should sort before literal")
	}

	// Within a class, ordering is lexical
	if CompareTerms(NewIRI("http://a"), NewIRI("http://b")) >= 0 {
		t.Error("IRIs should sort lexically")
	}
	if CompareTerms(iri, NewIRI("http://example.org/z")) != 0 {
		t.Error("Equal terms should compare as equal")
	}
}

func TestTriple_String(t *testing.T) {
	triple := NewTriple(
		NewIRI("http://example.org/s"),
		NewIRI("http://example.org/p"),
		NewLiteral("o"),
	)
	expected := `<http://example.org/s> <http://example.org/p> "o" .`
	if triple.String() != expected {
		t.Errorf("Expected %s, got %s", expected, triple.String())
	}
}
