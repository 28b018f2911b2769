// Package main contains Mage build targets for summary-engine developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories used by experiment runs.
var projectDirs = []string{
	"data",
	"output/preds",
	"output/reports",
}

const (
	binDir  = "bin"
	binName = "summary-engine"
	cmdPkg  = "./cmd/summary-engine"
	runsDB  = "output/runs.db"
)

// Init creates the directory layout for datasets, predictions and reports.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Summarize runs a strategy over data/<name>.jsonl and writes
// output/preds/<name>-<strategy>.jsonl, recording the run in output/runs.db.
func Summarize(name, strategy string) error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "summarize",
		"--dataset", datasetPath(name),
		"--preds", predsPath(name, strategy),
		"--strategy", strategy,
		"--db", runsDB,
	)
}

// Evaluate scores output/preds/<name>-<strategy>.jsonl against
// data/<name>.jsonl and writes output/reports/<name>-<strategy>.yaml.
func Evaluate(name, strategy string) error {
	mg.Deps(Build, Init)
	report := filepath.Join("output", "reports", name+"-"+strategy+".yaml")
	return sh.RunV(filepath.Join(binDir, binName), "evaluate",
		"--dataset", datasetPath(name),
		"--preds", predsPath(name, strategy),
		"--out", report,
	)
}

func datasetPath(name string) string {
	for _, ext := range []string{".jsonl", ".jsonl.gz"} {
		p := filepath.Join("data", name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join("data", name+".jsonl")
}

func predsPath(name, strategy string) string {
	return filepath.Join("output", "preds", name+"-"+strategy+".jsonl")
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports directories that are not part of the project sources.
func skipDir(d fs.DirEntry) bool {
	name := d.Name()
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == binDir || name == "output" || name == "data")
}

// countGoLines counts non-blank lines in Go files, split into production
// and _test.go files.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}

// countDocWords counts words in the Markdown files of the project.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(bytes.Fields(data))
		return nil
	})
	return total, err
}
