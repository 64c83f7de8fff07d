/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the project-level data model for a screenplay workspace.
// The parsed screenplay itself (elements, scenes, characters) lives in the
// fountain package; the types here describe the on-disk project manifest.

// Project represents a screenplay project and its metadata.
// It serializes to a human-readable JSON manifest (screenplay.json).
type Project struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Drafts   []Draft  `json:"drafts"`
}

// Metadata contains optional descriptive metadata for a project.
// Title-page keys parsed from the script itself take precedence at
// export time; these fields are what the writer fills in before a
// title page exists.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Contact string `json:"contact,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Draft captures one revision of the screenplay text. The script file
// on disk always holds the latest draft; older drafts are tracked by
// snapshot ID in the local index.
type Draft struct {
	Number     int    `json:"number"`
	Label      string `json:"label,omitempty"` // e.g., "first draft", "blue revision"
	SnapshotID int64  `json:"snapshotId,omitempty"`
	SavedAt    string `json:"savedAt,omitempty"` // RFC3339
}
