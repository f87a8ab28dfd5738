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

package compiler

import (
	"github.com/xyproto/env/v2"
)

// Debug switches, read from the environment on every query so tests can
// toggle them per case.

// DisableIndexToVar reports whether TENSORC_DISABLE_INDEX2VAR is set; the
// pipeline then runs without the caching transform.
func DisableIndexToVar() bool {
	return env.Bool("TENSORC_DISABLE_INDEX2VAR")
}

// DumpIR reports whether TENSORC_DUMP_IR is set; the pipeline then logs the
// IR around each pass.
func DumpIR() bool {
	return env.Bool("TENSORC_DUMP_IR")
}
