package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kitegraph/kite/pkg/kb"
	"github.com/kitegraph/kite/pkg/rdf"
	"github.com/kitegraph/kite/pkg/shacl"
	"github.com/kitegraph/kite/pkg/sparql"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "query":
		if len(os.Args) < 4 {
			fmt.Println("Usage: kite query <data-file> <query>")
			os.Exit(1)
		}
		runQuery(os.Args[2], os.Args[3])
	case "infer":
		if len(os.Args) < 3 {
			fmt.Println("Usage: kite infer <data-file> [output-format]")
			os.Exit(1)
		}
		format := "ntriples"
		if len(os.Args) >= 4 {
			format = os.Args[3]
		}
		runInfer(os.Args[2], format)
	case "validate":
		if len(os.Args) < 4 {
			fmt.Println("Usage: kite validate <data-file> <shapes-file>")
			os.Exit(1)
		}
		runValidate(os.Args[2], os.Args[3])
	case "convert":
		if len(os.Args) < 4 {
			fmt.Println("Usage: kite convert <data-file> <output-format>")
			os.Exit(1)
		}
		runConvert(os.Args[2], os.Args[3])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: kite <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  query <file> <q>        - Load an RDF file and run a query")
	fmt.Println("  infer <file> [format]   - Load, run RDFS inference, print the closure")
	fmt.Println("  validate <file> <yaml>  - Load and validate against YAML shapes")
	fmt.Println("  convert <file> <format> - Load and re-serialize (turtle, ntriples, jsonld, rdfxml)")
}

// formatForFile guesses the input format from the file extension.
func formatForFile(path string) (rdf.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return rdf.FormatTurtle, nil
	}
	return rdf.FormatByName(ext)
}

func open(dataFile string) *kb.KB {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	base, err := kb.New(kb.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create knowledge base: %v", err)
	}

	data, err := os.ReadFile(dataFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", dataFile, err)
	}

	format, err := formatForFile(dataFile)
	if err != nil {
		log.Fatalf("Cannot determine format of %s: %v", dataFile, err)
	}

	stats, err := base.Load(string(data), format)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", dataFile, err)
	}
	fmt.Printf("Loaded %d triples from %s\n", stats.TriplesAdded, dataFile)

	return base
}

func runQuery(dataFile, queryText string) {
	base := open(dataFile)
	defer base.Close()

	result, err := base.Query(queryText)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	switch result.Type {
	case sparql.QueryTypeSelect:
		for _, solution := range result.Solutions {
			for _, name := range result.Variables {
				if term, ok := solution[name]; ok {
					fmt.Printf("  ?%s = %s\n", name, term)
				}
			}
			fmt.Println()
		}
		fmt.Printf("%d solution(s)\n", len(result.Solutions))
	case sparql.QueryTypeAsk:
		fmt.Printf("%t\n", result.Ok)
	case sparql.QueryTypeConstruct, sparql.QueryTypeDescribe:
		out, err := rdf.EncodeNTriples(result.Triples)
		if err != nil {
			log.Fatalf("Failed to serialize result: %v", err)
		}
		fmt.Print(out)
	}
}

func runInfer(dataFile, formatName string) {
	base := open(dataFile)
	defer base.Close()

	report, err := base.Infer(100)
	if err != nil {
		log.Fatalf("Inference failed: %v", err)
	}
	fmt.Printf("Inference: %d round(s), %d triple(s) added, fixpoint=%t\n",
		report.RoundsRun, report.TriplesAdded, report.FixpointReached)

	format, err := rdf.FormatByName(formatName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	out, err := base.Export(format)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Print(out)
}

func runValidate(dataFile, shapesFile string) {
	base := open(dataFile)
	defer base.Close()

	shapesText, err := os.ReadFile(shapesFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", shapesFile, err)
	}
	shapes, err := shacl.LoadShapes(string(shapesText))
	if err != nil {
		log.Fatalf("Failed to load shapes: %v", err)
	}

	report, err := base.Validate(shapes)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	if report.Conforms {
		fmt.Println("Conforms")
		return
	}
	fmt.Printf("%d violation(s):\n", len(report.Violations))
	for _, v := range report.Violations {
		fmt.Printf("  %s\n", v)
	}
	os.Exit(1)
}

func runConvert(dataFile, formatName string) {
	base := open(dataFile)
	defer base.Close()

	format, err := rdf.FormatByName(formatName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	out, err := base.Export(format)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Print(out)
}
