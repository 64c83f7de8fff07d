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
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ScriptFileName is the canonical script file inside the script/ subfolder.
const ScriptFileName = "screenplay.fountain"

// ScriptFilePath returns the path of the project's script file, or "" for a
// nil handle.
func ScriptFilePath(ph *ProjectHandle) string {
	if ph == nil || ph.Root == "" {
		return ""
	}
	return filepath.Join(ph.Root, "script", ScriptFileName)
}

// ReadScript returns the script text. A missing script file is not an error;
// it reads as the empty string so a fresh project parses cleanly.
func ReadScript(ph *ProjectHandle) (string, error) {
	p := ScriptFilePath(ph)
	if p == "" {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// WriteScript writes the script text with the same temp-and-rename semantics
// as the manifest.
func WriteScript(ph *ProjectHandle, text string) error {
	p := ScriptFilePath(ph)
	if p == "" {
		return errors.New("nil ProjectHandle")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("ensure script dir: %w", err)
	}
	temp := p + fmt.Sprintf(".tmp-%d", os.Getpid())
	if err := writeFileSync(temp, []byte(text)); err != nil {
		return fmt.Errorf("write temp script: %w", err)
	}
	if _, err := os.Stat(p); err == nil {
		_ = os.Remove(p)
	}
	if err := os.Rename(temp, p); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace script: %w", err)
	}
	return nil
}
