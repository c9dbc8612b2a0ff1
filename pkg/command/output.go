// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

// Package command provides shared output helpers for the CLI tools.
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/client-go/util/jsonpath"
	"sigs.k8s.io/yaml"
)

var outputOpt string

// AddOutputOption adds the -o|--output option to cmd.
func AddOutputOption(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputOpt, "output", "o", "", "json| yaml| jsonpath='{}'")
}

// OutputOption returns true if an output option was set.
func OutputOption() bool {
	return len(outputOpt) > 0
}

// OutputOptionString returns the output option as a string.
func OutputOptionString() string {
	if outputOpt == "yaml" {
		return "YAML"
	}
	return "JSON"
}

// PrintOutput prints data according to the selected output option.
func PrintOutput(data interface{}) error {
	return PrintOutputWithType(data, outputOpt)
}

// PrintOutputWithType prints data in the given output format.
func PrintOutputWithType(data interface{}, outputType string) error {
	if outputType == "yaml" {
		return dumpYAML(data)
	}
	if outputType == "json" {
		return dumpJSON(data, "")
	}
	if strings.HasPrefix(outputType, "jsonpath=") {
		return dumpJSON(data, strings.TrimPrefix(outputType, "jsonpath="))
	}
	return fmt.Errorf("unknown output format %q", outputType)
}

// dumpJSON prints the data in JSON, optionally filtered through a
// jsonpath expression.
func dumpJSON(data interface{}, jsonPath string) error {
	if len(jsonPath) == 0 {
		result, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("couldn't marshal to json: %w", err)
		}
		fmt.Println(string(result))
		return nil
	}

	parser := jsonpath.New("").AllowMissingKeys(true)
	if err := parser.Parse(jsonPath); err != nil {
		return fmt.Errorf("error parsing jsonpath expression: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := parser.Execute(buf, data); err != nil {
		return fmt.Errorf("error executing jsonpath expression: %w", err)
	}

	fmt.Fprintln(os.Stdout, buf.String())
	return nil
}

// dumpYAML prints the data in YAML.
func dumpYAML(data interface{}) error {
	result, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("couldn't marshal to yaml: %w", err)
	}
	fmt.Println(string(result))
	return nil
}
