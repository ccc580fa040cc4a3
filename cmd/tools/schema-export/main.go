// cmd/tools/schema-export/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tribe-intake/internal/common/validation"
	"tribe-intake/pkg/registry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	checkCmd := flag.NewFlagSet("check", flag.ContinueOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	for _, fs := range []*flag.FlagSet{exportCmd, checkCmd, validateCmd} {
		fs.SetOutput(out)
	}

	exportOut := exportCmd.String("out", "", "Write the schema to this file instead of stdout")
	checkPath := checkCmd.String("path", "web/applicant.schema.json", "Frontend copy of the applicant schema")
	payloadPath := validateCmd.String("payload", "", "JSON file holding one application")

	if len(args) < 1 {
		help(out)
		return 1
	}

	switch args[0] {
	case "export":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if err := exportSchema(*exportOut, out); err != nil {
			fmt.Fprintf(out, "Error exporting schema: %v\n", err)
			return 1
		}
		if *exportOut != "" {
			fmt.Fprintf(out, "Wrote applicant schema to %s\n", *exportOut)
		}

	case "check":
		if err := checkCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if err := checkSchema(*checkPath); err != nil {
			fmt.Fprintf(out, "Schema check failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "%s matches the served schema.\n", *checkPath)

	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *payloadPath == "" {
			fmt.Fprintln(out, "Error: -payload is required for validate.")
			validateCmd.Usage()
			return 1
		}
		issues, err := validatePayload(*payloadPath)
		if err != nil {
			fmt.Fprintf(out, "Error reading payload: %v\n", err)
			return 1
		}
		if len(issues) > 0 {
			fmt.Fprintln(out, "Application is invalid:")
			for _, issue := range issues {
				fmt.Fprintf(out, "  %s\n", issue)
			}
			return 1
		}
		fmt.Fprintln(out, "Application is valid.")

	case "help":
		help(out)

	default:
		help(out)
		return 1
	}
	return 0
}

func exportSchema(path string, out io.Writer) error {
	data := registry.ApplicantSchemaJSON()
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// checkSchema fails when the file at path has drifted from the embedded
// schema, or is not a usable schema at all.
func checkSchema(path string) error {
	if _, err := registry.LoadRegistry(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !bytes.Equal(data, registry.ApplicantSchemaJSON()) {
		return fmt.Errorf("%s differs from the served schema; run `schema-export export -out %s`", path, path)
	}
	return nil
}

func validatePayload(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	reg, err := registry.Applicant()
	if err != nil {
		return nil, err
	}
	return validation.ValidateInput(doc, reg).GetErrorMessages(), nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: schema-export <command> [options]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  export    Print the applicant schema, or write it with -out")
	fmt.Fprintln(out, "  check     Verify a frontend copy matches the served schema (-path)")
	fmt.Fprintln(out, "  validate  Validate an application JSON file (-payload)")
	fmt.Fprintln(out, "  help      Show this help message")
}
