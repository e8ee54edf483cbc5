package rdf

import (
	"encoding/json"
	"fmt"

	ld "github.com/piprate/json-gold/ld"
)

// DecodeJSONLD parses a JSON-LD document into triples. The document is run
// through the standard expansion and deserialization algorithms
// (@context/@graph/@id/@value/@type/@language all handled there), converted
// to N-Quads text, and read back with the strict statement decoder so every
// decoder produces terms through the same code path.
//
// JSON-LD exposes no line/column positions, so parse failures carry only a
// reason.
func DecodeJSONLD(input string) ([]*Triple, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Err: err}
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("JSON-LD expansion failed: %v", err), Err: err}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected JSON-LD conversion result %T", result)}
	}

	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("JSON-LD serialization failed: %v", err), Err: err}
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected N-Quads result %T", serialized)}
	}

	// The engine's data model is triples; documents using named graphs fail
	// here rather than silently losing their graph component.
	triples, err := DecodeNTriples(nquads)
	if err != nil {
		return nil, &ParseError{
			Reason: "JSON-LD document is not expressible as a single default graph",
			Err:    err,
		}
	}
	return triples, nil
}

// EncodeJSONLD serializes triples as a JSON-LD document. The triples travel
// through canonical N-Quads into the standard RDF-to-JSON-LD algorithm; when
// a prefix table is supplied the result is compacted against it so the output
// uses the caller's namespace names.
func EncodeJSONLD(triples []*Triple, prefixes map[string]string) (string, error) {
	nquads, err := EncodeNTriples(triples)
	if err != nil {
		return "", err
	}

	proc := ld.NewJsonLdProcessor()
	fromOpts := ld.NewJsonLdOptions("")
	fromOpts.Format = "application/n-quads"
	doc, err := proc.FromRDF(nquads, fromOpts)
	if err != nil {
		return "", fmt.Errorf("JSON-LD conversion failed: %w", err)
	}

	output := doc
	if len(prefixes) > 0 {
		context := make(map[string]interface{}, len(prefixes))
		for name, ns := range prefixes {
			context[name] = ns
		}
		compacted, err := proc.Compact(doc, context, ld.NewJsonLdOptions(""))
		if err != nil {
			return "", fmt.Errorf("JSON-LD compaction failed: %w", err)
		}
		output = compacted
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON-LD marshaling failed: %w", err)
	}
	return string(encoded), nil
}
