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
	"os"
	"path/filepath"
)

// 💾 SameDevice reports whether src and dst live on the same storage device.
// A dst that does not exist yet is checked through its parent directory.
// Any failure to read device identity yields false.
func SameDevice(src, dst string) bool {
	if _, err := os.Stat(src); err != nil {
		return false
	}
	if _, err := os.Stat(dst); err != nil {
		dst = filepath.Dir(dst)
	}

	srcKey, err := deviceKey(src)
	if err != nil {
		return false
	}
	dstKey, err := deviceKey(dst)
	if err != nil {
		return false
	}
	return srcKey == dstKey
}
