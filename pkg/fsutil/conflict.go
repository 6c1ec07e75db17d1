// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultConflictAttempts bounds the suffix probe in ResolveConflict
const DefaultConflictAttempts = 1000

// 🎯 ResolveConflict returns a path inside destDir for filename that is not
// currently taken. Candidates name_1.ext .. name_{maxAttempts-1}.ext are
// probed in order; maxAttempts <= 0 means DefaultConflictAttempts.
//
// When every candidate is taken the original path is returned with ok=false.
func ResolveConflict(destDir, filename string, maxAttempts int) (path string, ok bool) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultConflictAttempts
	}

	original := filepath.Join(destDir, filename)
	if !exists(original) {
		return original, true
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for counter := 1; counter < maxAttempts; counter++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if !exists(candidate) {
			return candidate, true
		}
	}

	return original, false
}

// exists treats anything other than a clean "not exist" as taken
func exists(path string) bool {
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	return !errors.Is(err, fs.ErrNotExist)
}
