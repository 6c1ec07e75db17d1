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

/*
Package status defines what a transfer reports about itself and how that is
rendered for people.

	+-----------+   Status / counts   +-----------+   lines   +---------+
	| transfer  | ------------------> |  status   | --------> | console |
	+-----------+                     +-----------+           +---------+

🎯 Purpose:
- Names every state a transfer can end in (done, no device, no permission...)
- Formats progress lines: "<prefix>: 33% (1/3) 12.3 MB/s"
- Formats per-file result lines with a colored symbol

📝 Design:
Status values are plain data. Callers never parse the text; the transfer
package hands a Status to its OnStatusChange callback and the host decides
how to show it. Early-exit statuses (SourceNotFound, NoWritePermission,
NoReadPermission, NoFiles) are terminal for a run; PermissionDenied is an
in-flight warning and is followed by Done.
*/
package status
