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

package status

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProgressFormatter_FormatProgress(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		current     int
		total       int
		rate        string
		want        string
		description string
	}{
		{
			name:        "first_file",
			prefix:      "photo import",
			current:     1,
			total:       3,
			rate:        "12.3 MB/s",
			want:        "photo import: 33% (1/3) 12.3 MB/s",
			description: "percentage is truncated, not rounded",
		},
		{
			name:        "complete",
			prefix:      "VR import",
			current:     5,
			total:       5,
			rate:        "0.0 MB/s",
			want:        "VR import: 100% (5/5) 0.0 MB/s",
			description: "final event reaches 100%",
		},
		{
			name:        "no_rate",
			prefix:      "p",
			current:     0,
			total:       2,
			want:        "p: 0% (0/2)",
			description: "rate is optional",
		},
		{
			name:        "zero_total",
			prefix:      "p",
			current:     0,
			total:       0,
			want:        "p: 0% (0/0)",
			description: "empty totals do not divide by zero",
		},
	}

	f := NewDefaultProgressFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FormatProgress(tt.prefix, tt.current, tt.total, tt.rate)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.0 MB/s", FormatRate(0))
	assert.Equal(t, "12.3 MB/s", FormatRate(12.34))
	assert.Equal(t, "100.0 MB/s", FormatRate(99.96))
}

func TestDefaultProgressFormatter_FormatStatus(t *testing.T) {
	f := NewDefaultProgressFormatter()
	assert.Equal(t, "VR import: source not found", f.FormatStatus("VR import", StatusSourceNotFound))
	assert.Equal(t, "VR import: running", f.FormatStatus("VR import", StatusRunning))
}

func TestFormatFileOperation(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	line := FormatFileOperation("IMG_1.JPG", "IMG_1.JPG", ActionCopied, "10.0 MB/s")
	assert.True(t, strings.HasPrefix(line, "    ✓ IMG_1.JPG"), line)
	assert.Contains(t, line, "copied")
	assert.Contains(t, line, "10.0 MB/s")

	line = FormatFileOperation("IMG_1.JPG", "IMG_1_1.JPG", ActionMoved, "")
	assert.Contains(t, line, "IMG_1.JPG → IMG_1_1.JPG")
	assert.Contains(t, line, "➜")

	line = FormatFileOperation("clip.mp4", "", ActionSourceKept, "")
	assert.Contains(t, line, "⟳ clip.mp4")
	assert.Contains(t, line, "source kept")

	line = FormatFileOperation("bad.mp4", "", ActionFailed, "")
	assert.Contains(t, line, "✗ bad.mp4")
}
