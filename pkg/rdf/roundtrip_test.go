package rdf

import (
	"sort"
	"strings"
	"testing"
)

func sampleTriples() []*Triple {
	ex := func(local string) *IRI { return NewIRI("http://example.org/" + local) }
	return []*Triple{
		NewTriple(ex("alice"), RDFType, ex("Person")),
		NewTriple(ex("alice"), ex("name"), NewLiteral("Alice")),
		NewTriple(ex("alice"), ex("age"), NewLiteralWithDatatype("30", XSDInteger)),
		NewTriple(ex("alice"), ex("bio"), NewLiteralWithLanguage("hi", "en")),
		NewTriple(ex("alice"), ex("knows"), NewBlankNode("b1")),
		NewTriple(NewBlankNode("b1"), ex("name"), NewLiteral("Bob \"The Builder\"\nLine2")),
		NewTriple(ex("alice"), ex("score"), NewLiteralWithDatatype("5.50", XSDDecimal)),
	}
}

func sortTriples(triples []*Triple) {
	sort.Slice(triples, func(i, j int) bool {
		return CompareTriples(triples[i], triples[j]) < 0
	})
}

func assertSameTripleSet(t *testing.T, expected, actual []*Triple) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("Expected %d triples, got %d", len(expected), len(actual))
	}
	sortTriples(expected)
	sortTriples(actual)
	for i := range expected {
		if !expected[i].Equals(actual[i]) {
			t.Errorf("Triple %d differs:\n  expected %s\n  got      %s", i, expected[i], actual[i])
		}
	}
}

func TestNTriples_RoundTrip(t *testing.T) {
	original := sampleTriples()

	encoded, err := EncodeNTriples(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := DecodeNTriples(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	assertSameTripleSet(t, original, decoded)
}

func TestNTriples_CanonicalOrder(t *testing.T) {
	triples := sampleTriples()

	first, err := EncodeNTriples(triples)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Reverse the input; the output must not change
	reversed := make([]*Triple, len(triples))
	for i, triple := range triples {
		reversed[len(triples)-1-i] = triple
	}
	second, err := EncodeNTriples(reversed)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if first != second {
		t.Error("Canonical encoding should not depend on input order")
	}

	lines := strings.Split(strings.TrimRight(first, "\n"), "\n")
	if len(lines) != len(triples) {
		t.Errorf("Expected %d lines, got %d", len(triples), len(lines))
	}
	if !sort.StringsAreSorted(lines) {
		// Lines follow triple order, which matches the string order of the
		// canonical forms for this data
		t.Log("Lines:", lines)
	}
}

func TestTurtle_RoundTrip(t *testing.T) {
	original := sampleTriples()
	prefixes := map[string]string{
		"ex":  "http://example.org/",
		"xsd": XSDNamespace,
		"rdf": RDFNamespace,
	}

	encoded, err := EncodeTurtle(original, prefixes)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := NewTurtleDecoder(encoded, nil).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v\nEncoded:\n%s", err, encoded)
	}

	assertSameTripleSet(t, original, decoded)
}

func TestTurtle_EncodeGroupsBySubject(t *testing.T) {
	ex := func(local string) *IRI { return NewIRI("http://example.org/" + local) }
	triples := []*Triple{
		NewTriple(ex("s"), ex("p1"), ex("o1")),
		NewTriple(ex("s"), ex("p2"), ex("o2")),
	}

	encoded, err := EncodeTurtle(triples, map[string]string{"ex": "http://example.org/"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if strings.Count(encoded, "ex:s") != 1 {
		t.Errorf("Subject should appear once, encoded:\n%s", encoded)
	}
	if !strings.Contains(encoded, ";") {
		t.Errorf("Predicates of one subject should be ';'-separated, encoded:\n%s", encoded)
	}
	if !strings.Contains(encoded, "@prefix ex: <http://example.org/> .") {
		t.Errorf("Used prefix should be declared, encoded:\n%s", encoded)
	}
}

func TestJSONLD_RoundTrip(t *testing.T) {
	// Blank nodes get relabeled by JSON-LD processors; keep to named nodes
	ex := func(local string) *IRI { return NewIRI("http://example.org/" + local) }
	original := []*Triple{
		NewTriple(ex("alice"), RDFType, ex("Person")),
		NewTriple(ex("alice"), ex("name"), NewLiteral("Alice")),
		NewTriple(ex("alice"), ex("age"), NewLiteralWithDatatype("30", XSDInteger)),
		NewTriple(ex("alice"), ex("knows"), ex("bob")),
	}

	encoded, err := EncodeJSONLD(original, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := DecodeJSONLD(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v\nEncoded:\n%s", err, encoded)
	}

	assertSameTripleSet(t, original, decoded)
}

func TestRDFXML_RoundTrip(t *testing.T) {
	original := sampleTriples()

	encoded, err := EncodeRDFXML(original, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := DecodeRDFXML(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v\nEncoded:\n%s", err, encoded)
	}

	assertSameTripleSet(t, original, decoded)
}

func TestRDFXML_EmptyResourceAttribute(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://example.org/">
  <rdf:Description rdf:about="http://example.org/alice">
    <ex:knows rdf:resource=""/>
    <ex:name>Alice</ex:name>
  </rdf:Description>
</rdf:RDF>`

	triples, err := DecodeRDFXML(doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(triples) != 2 {
		t.Fatalf("Expected 2 triples, got %d", len(triples))
	}

	var knows *Triple
	for _, triple := range triples {
		if triple.Predicate.Equals(NewIRI("http://example.org/knows")) {
			knows = triple
		}
	}
	if knows == nil {
		t.Fatal("Missing ex:knows triple")
	}
	obj, ok := knows.Object.(*IRI)
	if !ok {
		t.Fatalf("rdf:resource object should be an IRI, got %T (%s)", knows.Object, knows.Object)
	}
	if obj.Value != "" {
		t.Errorf("Expected empty IRI value, got %q", obj.Value)
	}
}

func TestEncode_RejectsInvalidLiteral(t *testing.T) {
	bad := NewTriple(
		NewIRI("http://example.org/s"),
		NewIRI("http://example.org/p"),
		&Literal{Value: "x", Language: "en", Datatype: XSDString},
	)

	for _, format := range []Format{FormatTurtle, FormatNTriples, FormatJSONLD, FormatRDFXML} {
		if _, err := Encode(format, []*Triple{bad}, nil); err == nil {
			t.Errorf("Format %s should reject a literal with both language and datatype", format)
		}
	}
}

func TestFormatByName_And_ContentType(t *testing.T) {
	cases := map[string]Format{
		"turtle":   FormatTurtle,
		"ttl":      FormatTurtle,
		"nt":       FormatNTriples,
		"jsonld":   FormatJSONLD,
		"rdfxml":   FormatRDFXML,
		"RDF/XML":  FormatRDFXML,
		"N-Triples": FormatNTriples,
	}
	for name, expected := range cases {
		format, err := FormatByName(name)
		if err != nil {
			t.Errorf("FormatByName(%q) failed: %v", name, err)
			continue
		}
		if format != expected {
			t.Errorf("FormatByName(%q) = %v, expected %v", name, format, expected)
		}
	}

	if _, err := FormatByName("trig"); err == nil {
		t.Error("Unsupported format name should fail")
	}

	format, err := FormatByContentType("text/turtle; charset=utf-8")
	if err != nil || format != FormatTurtle {
		t.Errorf("Content type lookup failed: %v %v", format, err)
	}
}
