package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DecodeRDFXML parses an RDF/XML document. Supported constructs:
// rdf:Description with rdf:about/rdf:nodeID, property elements with
// rdf:resource, rdf:datatype, xml:lang, text content, and nested
// rdf:Description elements as blank nodes.
func DecodeRDFXML(input string) ([]*Triple, error) {
	decoder := xml.NewDecoder(strings.NewReader(input))
	p := &rdfxmlDecoder{decoder: decoder}
	triples, err := p.decode()
	if err != nil {
		// xml.Decoder exposes byte offsets, not line/column; report the
		// reason only.
		if _, ok := err.(*ParseError); ok {
			return nil, err
		}
		return nil, &ParseError{Reason: err.Error(), Err: err}
	}
	return triples, nil
}

type rdfxmlDecoder struct {
	decoder          *xml.Decoder
	blankNodeCounter int
}

func (p *rdfxmlDecoder) decode() ([]*Triple, error) {
	var triples []*Triple

	for {
		token, err := p.decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("XML syntax error: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		// The rdf:RDF root is a container; descend into it.
		if start.Name.Space == RDFNamespace && start.Name.Local == "RDF" {
			continue
		}

		subject, err := p.subjectFor(start)
		if err != nil {
			return nil, err
		}
		nodeTriples, err := p.decodeNode(start, subject)
		if err != nil {
			return nil, err
		}
		triples = append(triples, nodeTriples...)
	}

	return triples, nil
}

// subjectFor derives the subject term from a node element's rdf:about or
// rdf:nodeID attribute, generating a blank node when neither is present.
func (p *rdfxmlDecoder) subjectFor(start xml.StartElement) (Term, error) {
	if about, ok := attrValue(start.Attr, RDFNamespace, "about"); ok {
		return NewIRI(about), nil
	}
	if nodeID, ok := attrValue(start.Attr, RDFNamespace, "nodeID"); ok && nodeID != "" {
		return NewBlankNode(nodeID), nil
	}
	return p.newBlankNode(), nil
}

func (p *rdfxmlDecoder) newBlankNode() *BlankNode {
	p.blankNodeCounter++
	return NewBlankNode(fmt.Sprintf("b%d", p.blankNodeCounter))
}

// decodeNode consumes the children of a node element (rdf:Description or a
// typed element), emitting one triple per property element, until the
// matching end element.
func (p *rdfxmlDecoder) decodeNode(start xml.StartElement, subject Term) ([]*Triple, error) {
	var triples []*Triple

	// A typed node element <ex:Person rdf:about="..."> asserts rdf:type.
	if !(start.Name.Space == RDFNamespace && start.Name.Local == "Description") {
		typeIRI := start.Name.Space + start.Name.Local
		triples = append(triples, NewTriple(subject, RDFType, NewIRI(typeIRI)))
	}

	for {
		token, err := p.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("unterminated element <%s>: %w", start.Name.Local, err)
		}

		switch elem := token.(type) {
		case xml.StartElement:
			propTriples, err := p.decodeProperty(elem, subject)
			if err != nil {
				return nil, err
			}
			triples = append(triples, propTriples...)
		case xml.EndElement:
			return triples, nil
		}
	}
}

// decodeProperty consumes one property element and its content.
func (p *rdfxmlDecoder) decodeProperty(elem xml.StartElement, subject Term) ([]*Triple, error) {
	predicate := NewIRI(elem.Name.Space + elem.Name.Local)

	// rdf:resource makes the object an IRI and the element empty. Presence
	// alone decides: rdf:resource="" is a resource object, not a literal.
	if resource, ok := attrValue(elem.Attr, RDFNamespace, "resource"); ok {
		if err := p.decoder.Skip(); err != nil {
			return nil, fmt.Errorf("malformed property element: %w", err)
		}
		return []*Triple{NewTriple(subject, predicate, NewIRI(resource))}, nil
	}

	// rdf:nodeID references a labeled blank node.
	if nodeID, ok := attrValue(elem.Attr, RDFNamespace, "nodeID"); ok && nodeID != "" {
		if err := p.decoder.Skip(); err != nil {
			return nil, fmt.Errorf("malformed property element: %w", err)
		}
		return []*Triple{NewTriple(subject, predicate, NewBlankNode(nodeID))}, nil
	}

	datatype, _ := attrValue(elem.Attr, RDFNamespace, "datatype")
	lang := attrValueAnyNS(elem.Attr, "lang")

	var text strings.Builder
	for {
		token, err := p.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("unterminated property element <%s>: %w", elem.Name.Local, err)
		}

		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			var object Term
			switch {
			case datatype != "":
				object = NewLiteralWithDatatype(text.String(), NewIRI(datatype))
			case lang != "":
				object = NewLiteralWithLanguage(text.String(), lang)
			default:
				object = NewLiteral(text.String())
			}
			return []*Triple{NewTriple(subject, predicate, object)}, nil
		case xml.StartElement:
			// A nested node element: the object is a resource described
			// inline.
			nested, err := p.subjectFor(t)
			if err != nil {
				return nil, err
			}
			nestedTriples, err := p.decodeNode(t, nested)
			if err != nil {
				return nil, err
			}
			out := []*Triple{NewTriple(subject, predicate, nested)}
			out = append(out, nestedTriples...)
			// Consume the property element's own end tag.
			if err := p.skipToEnd(); err != nil {
				return nil, err
			}
			return out, nil
		}
	}
}

// skipToEnd consumes tokens up to and including the next end element at the
// current nesting depth.
func (p *rdfxmlDecoder) skipToEnd() error {
	depth := 0
	for {
		token, err := p.decoder.Token()
		if err != nil {
			return fmt.Errorf("malformed property element: %w", err)
		}
		switch token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// attrValue reports the attribute's value and whether it was present at all;
// an empty value is distinct from an absent attribute (rdf:resource="" still
// names a resource).
func attrValue(attrs []xml.Attr, namespace, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == namespace && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

func attrValueAnyNS(attrs []xml.Attr, local string) string {
	for _, attr := range attrs {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// EncodeRDFXML serializes triples as RDF/XML: an rdf:RDF root holding one
// rdf:Description per subject. Predicates are emitted with their full
// namespace split at the last '#' or '/'.
func EncodeRDFXML(triples []*Triple, prefixes map[string]string) (string, error) {
	sorted := make([]*Triple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(i, j int) bool {
		return CompareTriples(sorted[i], sorted[j]) < 0
	})

	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(fmt.Sprintf("<rdf:RDF xmlns:rdf=%q>\n", RDFNamespace))

	for i := 0; i < len(sorted); {
		subject := sorted[i].Subject
		switch s := subject.(type) {
		case *IRI:
			sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:about=%q>\n", s.Value))
		case *BlankNode:
			sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:nodeID=%q>\n", s.ID))
		default:
			return "", fmt.Errorf("cannot serialize subject of type %T", subject)
		}

		for i < len(sorted) && sorted[i].Subject.Equals(subject) {
			if err := writeRDFXMLProperty(&sb, sorted[i]); err != nil {
				return "", err
			}
			i++
		}
		sb.WriteString("  </rdf:Description>\n")
	}

	sb.WriteString("</rdf:RDF>\n")
	return sb.String(), nil
}

func writeRDFXMLProperty(sb *strings.Builder, triple *Triple) error {
	pred, ok := triple.Predicate.(*IRI)
	if !ok {
		return fmt.Errorf("cannot serialize predicate of type %T", triple.Predicate)
	}
	ns, local := splitIRI(pred.Value)
	if local == "" {
		return fmt.Errorf("predicate IRI %q has no local name", pred.Value)
	}

	open := fmt.Sprintf("<p:%s xmlns:p=%q", local, ns)

	switch o := triple.Object.(type) {
	case *IRI:
		sb.WriteString(fmt.Sprintf("    %s rdf:resource=%q/>\n", open, o.Value))
	case *BlankNode:
		sb.WriteString(fmt.Sprintf("    %s rdf:nodeID=%q/>\n", open, o.ID))
	case *Literal:
		if err := o.Validate(); err != nil {
			return err
		}
		switch {
		case o.Datatype != nil:
			sb.WriteString(fmt.Sprintf("    %s rdf:datatype=%q>", open, o.Datatype.Value))
		case o.Language != "":
			sb.WriteString(fmt.Sprintf("    %s xml:lang=%q>", open, o.Language))
		default:
			sb.WriteString(fmt.Sprintf("    %s>", open))
		}
		if err := xml.EscapeText(sb, []byte(o.Value)); err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("</p:%s>\n", local))
	default:
		return fmt.Errorf("cannot serialize object of type %T", triple.Object)
	}
	return nil
}

// splitIRI splits an IRI into namespace and local name at the last '#' or '/'.
func splitIRI(iri string) (string, string) {
	if idx := strings.LastIndexByte(iri, '#'); idx >= 0 && idx+1 < len(iri) {
		return iri[:idx+1], iri[idx+1:]
	}
	if idx := strings.LastIndexByte(iri, '/'); idx >= 0 && idx+1 < len(iri) {
		return iri[:idx+1], iri[idx+1:]
	}
	return "", iri
}
