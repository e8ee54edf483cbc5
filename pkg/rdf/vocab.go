package rdf

// Namespace IRIs for the vocabularies the engine knows about.
//
// References:
// - RDF:  https://www.w3.org/TR/rdf11-concepts/
// - RDFS: https://www.w3.org/TR/rdf-schema/
// - XSD:  https://www.w3.org/TR/xmlschema11-2/
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
)

// RDF and RDFS terms the reasoner and validator depend on.
var (
	// RDFType is the rdf:type predicate linking a resource to its class.
	RDFType = NewIRI(RDFNamespace + "type")

	// RDFSSubClassOf declares the subclass relation between two classes.
	RDFSSubClassOf = NewIRI(RDFSNamespace + "subClassOf")

	// RDFSSubPropertyOf declares the subproperty relation between predicates.
	RDFSSubPropertyOf = NewIRI(RDFSNamespace + "subPropertyOf")

	// RDFSDomain declares the class of valid subjects for a predicate.
	RDFSDomain = NewIRI(RDFSNamespace + "domain")

	// RDFSRange declares the class of valid objects for a predicate.
	RDFSRange = NewIRI(RDFSNamespace + "range")

	RDFSLabel   = NewIRI(RDFSNamespace + "label")
	RDFSComment = NewIRI(RDFSNamespace + "comment")
)

// Common XSD datatype IRIs.
var (
	XSDString   = NewIRI(XSDNamespace + "string")
	XSDInteger  = NewIRI(XSDNamespace + "integer")
	XSDDecimal  = NewIRI(XSDNamespace + "decimal")
	XSDDouble   = NewIRI(XSDNamespace + "double")
	XSDBoolean  = NewIRI(XSDNamespace + "boolean")
	XSDDateTime = NewIRI(XSDNamespace + "dateTime")
	XSDDate     = NewIRI(XSDNamespace + "date")
)

// DefaultPrefixes returns the prefix table a fresh parse session starts from.
// A Turtle @prefix directive for the same prefix shadows these.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"xsd":  XSDNamespace,
		"owl":  OWLNamespace,
	}
}
