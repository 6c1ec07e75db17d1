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
Package fsutil holds the filesystem primitives the import engine is built on.

🎯 Naming

ResolveConflict picks a destination name that does not collide with an
existing entry by inserting a numeric suffix before the extension:

	IMG_0001.JPG -> IMG_0001_1.JPG -> IMG_0001_2.JPG ...

The probe is capped. When every candidate is taken the original path is
returned together with ok=false and the caller decides how to treat the
possible overwrite. Nothing is locked; callers own their destination for the
duration of a run.

💾 Devices

SameDevice compares the device identity of two paths. Any stat failure
yields false so that callers fall back to copy semantics.

📦 Copying and moving

CopyFile copies content and, when asked, the permission bits and
modification time. Move renames and reports EXDEV as *CrossDeviceError so
the caller can switch to copy-then-delete.

🔍 Classification

IsPermission and IsCrossDevice inspect wrapped errors.
*/
package fsutil
