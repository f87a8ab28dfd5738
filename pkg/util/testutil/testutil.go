// Copyright 2026 Ant Group Co., Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil holds golden-data helpers for pass tests. Expected IR
// dumps live in testdata JSON files; run the tests with -record to
// regenerate them after an intended output change.
package testutil

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"github.com/pingcap/errors"
)

// record is a flag used for generating test results.
var record bool

// IsRecording returns true if the -record flag is set
func IsRecording() bool {
	return record
}

func init() {
	flag.BoolVar(&record, "record", false, "to generate test result")
}

// GoldenData stores the expected outputs of one test suite.
type GoldenData struct {
	path  string
	cases map[string]string
}

// LoadGolden reads a golden JSON file mapping case names to expected
// output. In record mode the file is not read; Check collects the actual
// outputs and Save writes them back.
func LoadGolden(path string) (*GoldenData, error) {
	g := &GoldenData{path: path, cases: make(map[string]string)}
	if record {
		return g, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "reading golden data %s", path)
	}
	if err := json.Unmarshal(raw, &g.cases); err != nil {
		return nil, errors.Annotatef(err, "parsing golden data %s", path)
	}
	return g, nil
}

// Check compares got against the recorded output for name, or records it.
func (g *GoldenData) Check(t *testing.T, name, got string) {
	t.Helper()
	if record {
		g.cases[name] = got
		return
	}
	want, ok := g.cases[name]
	if !ok {
		t.Fatalf("no golden output for case %q; run with -record to create it", name)
	}
	if got != want {
		t.Fatalf("case %q output mismatch\n--- want ---\n%s\n--- got ---\n%s", name, want, got)
	}
}

// Save writes the collected outputs back to the golden file. Only
// meaningful in record mode.
func (g *GoldenData) Save() error {
	if !record {
		return nil
	}
	raw, err := json.MarshalIndent(g.cases, "", "  ")
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(os.WriteFile(g.path, append(raw, '\n'), 0o644), "writing golden data %s", g.path)
}
