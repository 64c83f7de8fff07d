/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Appearance is the per-character statistics record. Names are case-sensitive
// trimmed cue texts.
type Appearance struct {
	FirstAppearanceLine int `json:"firstAppearanceLine"`
	LastAppearanceLine  int `json:"lastAppearanceLine"`
	DialogueCount       int `json:"dialogueCount"`
	SceneCount          int `json:"sceneCount"`
}

// ExtractCharacters mines the element stream for per-character appearance
// statistics. It runs independently of the scene segmenter over the same
// stream.
//
// Dialogue attribution deliberately does not reuse the classifier's carried
// cue state: each dialogue element is attributed by scanning backward through
// the already-seen elements for the nearest prior cue, so attribution stays
// correct on element slices that were filtered or re-serialized.
func ExtractCharacters(elements []Element) map[string]Appearance {
	records := map[string]Appearance{}
	// Distinct scene occurrences per character, keyed by the heading
	// element's line number.
	sceneSets := map[string]map[int]bool{}
	currentSceneLine := 0

	for i, el := range elements {
		switch el.Kind {
		case KindSceneHeading, KindForcedSceneHeading:
			currentSceneLine = el.LineNumber

		case KindCharacterCue, KindDualDialogueCue:
			name := el.Text
			rec, seen := records[name]
			if !seen {
				rec.FirstAppearanceLine = el.LineNumber
				sceneSets[name] = map[int]bool{}
			}
			rec.LastAppearanceLine = el.LineNumber
			if currentSceneLine > 0 {
				sceneSets[name][currentSceneLine] = true
			}
			rec.SceneCount = len(sceneSets[name])
			records[name] = rec

		case KindDialogue:
			// Nearest prior cue strictly by stream position. Dialogue with no
			// preceding cue is silently unattributed.
			for j := i - 1; j >= 0; j-- {
				k := elements[j].Kind
				if k == KindCharacterCue || k == KindDualDialogueCue {
					rec := records[elements[j].Text]
					rec.DialogueCount++
					records[elements[j].Text] = rec
					break
				}
			}
		}
	}
	return records
}
