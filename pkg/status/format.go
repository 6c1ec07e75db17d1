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
	"fmt"
)

// ProgressFormatter defines how progress and status lines are rendered
type ProgressFormatter interface {
	// FormatProgress formats a progress line for one source
	FormatProgress(prefix string, current, total int, rate string) string

	// FormatStatus formats a status change for one source
	FormatStatus(prefix string, s Status) string
}

// DefaultProgressFormatter provides the default rendering
type DefaultProgressFormatter struct{}

// NewDefaultProgressFormatter creates a new DefaultProgressFormatter
func NewDefaultProgressFormatter() *DefaultProgressFormatter {
	return &DefaultProgressFormatter{}
}

// FormatRate renders a transfer rate the way progress lines show it
func FormatRate(mbPerSecond float64) string {
	return fmt.Sprintf("%.1f MB/s", mbPerSecond)
}

// Percent returns the integer completion percentage, 0 for an empty total
func Percent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return current * 100 / total
}

// FormatProgress formats "<prefix>: 33% (1/3) 12.3 MB/s"
func (f *DefaultProgressFormatter) FormatProgress(prefix string, current, total int, rate string) string {
	msg := fmt.Sprintf("%s: %d%% (%d/%d)", prefix, Percent(current, total), current, total)
	if rate != "" {
		msg += " " + rate
	}
	return msg
}

// FormatStatus formats "<prefix>: <status>"
func (f *DefaultProgressFormatter) FormatStatus(prefix string, s Status) string {
	return fmt.Sprintf("%s: %s", prefix, s)
}
