/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"goscreenwriter/internal/fountain"
)

// ExportParse writes the full parse result (title page, elements, scenes,
// characters) as indented JSON into the project's exports folder and returns
// the file path.
func ExportParse(ph *ProjectHandle, sp fountain.Screenplay) (string, error) {
	return exportJSON(ph, "parse.json", sp)
}

// ExportScenes writes only the scene list.
func ExportScenes(ph *ProjectHandle, scenes []fountain.Scene) (string, error) {
	return exportJSON(ph, "scenes.json", scenes)
}

// ExportCharacters writes only the character appearance map.
func ExportCharacters(ph *ProjectHandle, chars map[string]fountain.Appearance) (string, error) {
	return exportJSON(ph, "characters.json", chars)
}

func exportJSON(ph *ProjectHandle, name string, v any) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	dir := filepath.Join(ph.Root, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure exports dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	path := filepath.Join(dir, name)
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
