// cmd/tools/brief-preview/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"career-brief-workers/internal/brief"
	"career-brief-workers/internal/careers"
	compilecareerbrief "career-brief-workers/internal/workers/assessment/compile-career-brief"
)

func main() {
	in := flag.String("in", "-", "Submission JSON file, - for stdin")
	rules := flag.String("rules", "", "Rule table YAML; empty uses the built-in table")
	baseline := flag.Int("baseline", 0, "Interest baseline override")
	asJSON := flag.Bool("json", false, "Print the compiled brief as JSON")
	flag.Parse()

	if err := run(*in, *rules, *baseline, *asJSON, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, rules string, baseline int, asJSON bool, out io.Writer) error {
	raw, err := readInput(in)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(rules)
	if err != nil {
		return err
	}
	for _, c := range catalog.Conflicts() {
		fmt.Fprintf(os.Stderr, "warning: rule %d shadows rule %d for %s\n", c.Kept, c.Shadowed, c.Key)
	}

	compiler, err := brief.NewCompiler(catalog, brief.Options{InterestBaseline: baseline})
	if err != nil {
		return err
	}
	sub, err := compilecareerbrief.DecodeSubmission(raw)
	if err != nil {
		return err
	}
	compiled, err := compiler.Compile(sub)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(compiled)
	}

	fmt.Fprintf(out, "token:    %s\n", compiled.Token)
	fmt.Fprintf(out, "strategy: %s\n", compiled.Strategy)
	fmt.Fprintf(out, "interest: %s\n", compiled.InterestCode)
	if compiled.StreamCategory != "" {
		fmt.Fprintf(out, "stream:   %s\n", compiled.StreamCategory)
	}
	for _, c := range compiled.Clusters {
		fmt.Fprintf(out, "cluster:  %-8s %3d  %s\n", c.Fit, c.MatchScore, c.Title)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, compiled.Text)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func loadCatalog(path string) (*careers.Catalog, error) {
	if path == "" {
		return careers.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return careers.Load(data)
}
