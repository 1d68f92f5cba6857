package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shards-pm/shards/vuln"
)

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printlnOutput(path string, text string) error {
	if path == "" || path == "-" {
		fmt.Println(text)
		return nil
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// writeJSONLines emits one compact JSON object per package scan result,
// newline-delimited, for streaming into a CI log.
func writeJSONLines(path string, results []vuln.PackageScanResult) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return writeOutput(path, buf.Bytes())
}
