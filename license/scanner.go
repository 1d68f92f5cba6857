// Package license implements heuristic license detection from on-disk
// LICENSE-family files and the allow/deny policy evaluator.
package license

import (
	"os"
	"path/filepath"
	"regexp"
)

// Confidence is how sure a detection result is.
type Confidence string

const (
	High Confidence = "High"
	None Confidence = "None"
)

// ScanResult is the outcome of scanning a directory for a license file.
type ScanResult struct {
	File       string // empty if no candidate file was found
	ID         string // empty if no pattern matched
	Confidence Confidence
}

// candidateFiles is the priority-ordered list of filenames checked.
var candidateFiles = []string{
	"LICENSE", "LICENSE.md", "LICENSE.txt",
	"LICENCE", "LICENCE.md", "LICENCE.txt",
	"LICENSE-MIT", "LICENSE-APACHE",
	"COPYING", "COPYING.md", "COPYING.txt",
}

// pattern pairs a case-insensitive regex with the SPDX id it identifies.
type pattern struct {
	id string
	re *regexp.Regexp
}

// patterns is checked in order; the first match wins.
var patterns = []pattern{
	{"MIT", regexp.MustCompile(`(?i)permission is hereby granted, free of charge`)},
	{"Apache-2.0", regexp.MustCompile(`(?i)apache license\s*,?\s*version 2\.0`)},
	{"BSD-3-Clause", regexp.MustCompile(`(?i)neither the name of.*nor the names of its contributors`)},
	{"BSD-2-Clause", regexp.MustCompile(`(?i)redistributions in binary form must reproduce the above`)},
	{"ISC", regexp.MustCompile(`(?i)permission to use, copy, modify, and(?:/or)? distribute this software`)},
	{"MPL-2.0", regexp.MustCompile(`(?i)mozilla public license,?\s*version 2\.0`)},
	{"GPL-3.0-only", regexp.MustCompile(`(?i)gnu general public license\s*\n?\s*version 3`)},
	{"GPL-2.0-only", regexp.MustCompile(`(?i)gnu general public license\s*\n?\s*version 2`)},
	{"LGPL-3.0-only", regexp.MustCompile(`(?i)gnu lesser general public license\s*\n?\s*version 3`)},
	{"LGPL-2.1-only", regexp.MustCompile(`(?i)gnu lesser general public license\s*\n?\s*version 2\.1`)},
	{"AGPL-3.0-only", regexp.MustCompile(`(?i)gnu affero general public license\s*\n?\s*version 3`)},
	{"Unlicense", regexp.MustCompile(`(?i)this is free and unencumbered software released into the public domain`)},
	{"CC0-1.0", regexp.MustCompile(`(?i)creative commons (?:legal code\s*)?cc0`)},
	{"Zlib", regexp.MustCompile(`(?i)this software is provided 'as-is', without any express or implied warranty`)},
}

// Scan finds the first recognized license file under dir and classifies its
// content. A directory with no candidate file returns a zero-confidence,
// no-id result; the same is true when a file is found but no pattern
// matches.
func Scan(dir string) ScanResult {
	for _, name := range candidateFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, p := range patterns {
			if p.re.Match(data) {
				return ScanResult{File: name, ID: p.id, Confidence: High}
			}
		}
		return ScanResult{File: name, ID: "", Confidence: None}
	}
	return ScanResult{Confidence: None}
}
