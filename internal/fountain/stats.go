/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Report aggregates scene and character outputs for dashboards and the CLI
// stats command. Pure post-processing over the pipeline outputs.
type Report struct {
	SceneCount        int               `json:"sceneCount"`
	WordCount         int               `json:"wordCount"`
	DialogueLineCount int               `json:"dialogueLineCount"`
	ActionLineCount   int               `json:"actionLineCount"`
	CharacterCount    int               `json:"characterCount"`
	ScenesByCategory  map[Category]int  `json:"-"`
	ScenesByTime      map[TimeOfDay]int `json:"-"`
	AvgWordsPerScene  float64           `json:"avgWordsPerScene"`
	BusiestCharacter  string            `json:"busiestCharacter,omitempty"`
}

// Summarize reduces the scene list and character table to aggregate totals.
// The busiest character is the one with the most dialogue lines, ties broken
// by name so the result is deterministic.
func Summarize(scenes []Scene, characters map[string]Appearance) Report {
	r := Report{
		SceneCount:       len(scenes),
		CharacterCount:   len(characters),
		ScenesByCategory: map[Category]int{},
		ScenesByTime:     map[TimeOfDay]int{},
	}
	for _, sc := range scenes {
		r.WordCount += sc.WordCount
		r.DialogueLineCount += sc.DialogueLineCount
		r.ActionLineCount += sc.ActionLineCount
		r.ScenesByCategory[sc.Category]++
		r.ScenesByTime[sc.TimeOfDay]++
	}
	if len(scenes) > 0 {
		r.AvgWordsPerScene = float64(r.WordCount) / float64(len(scenes))
	}
	best := -1
	for name, rec := range characters {
		if rec.DialogueCount > best || (rec.DialogueCount == best && name < r.BusiestCharacter) {
			best = rec.DialogueCount
			r.BusiestCharacter = name
		}
	}
	return r
}
