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

// 📊 Status is the user-facing state of a transfer
type Status int

const (
	StatusUnknown           Status = iota
	StatusRunning                  // files are being transferred
	StatusSourceNotFound           // source missing, usually no card inserted
	StatusNoWritePermission        // destination probe failed
	StatusNoReadPermission         // source cannot be listed
	StatusNoFiles                  // nothing to import
	StatusPermissionDenied         // a per-file operation hit EPERM/EACCES
	StatusFailed                   // unexpected failure outside the file loop
	StatusDone                     // every enumerated file was attempted
)

// String returns the status text shown to the user
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSourceNotFound:
		return "source not found"
	case StatusNoWritePermission:
		return "no write permission"
	case StatusNoReadPermission:
		return "no read permission"
	case StatusNoFiles:
		return "no files"
	case StatusPermissionDenied:
		return "permission denied"
	case StatusFailed:
		return "failed"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// IsEarlyExit reports whether a run with this status stopped before the file loop
func (s Status) IsEarlyExit() bool {
	switch s {
	case StatusSourceNotFound, StatusNoWritePermission, StatusNoReadPermission, StatusNoFiles, StatusFailed:
		return true
	default:
		return false
	}
}

// IsAlarming reports whether the status deserves more than plain status text.
// A missing source is the normal "no card inserted" case and is not alarming.
func (s Status) IsAlarming() bool {
	switch s {
	case StatusNoWritePermission, StatusNoReadPermission, StatusPermissionDenied, StatusFailed:
		return true
	default:
		return false
	}
}
