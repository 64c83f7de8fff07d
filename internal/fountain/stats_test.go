/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "testing"

func TestSummarizeTotals(t *testing.T) {
	input := "INT. A - DAY\nAction one.\nANNA\nHi.\nEXT. B - NIGHT\nAction two.\nAction three.\n"
	sp := Parse(input)
	r := Summarize(sp.Scenes, sp.Characters)
	if r.SceneCount != 2 {
		t.Fatalf("expected 2 scenes, got %d", r.SceneCount)
	}
	if r.CharacterCount != 1 {
		t.Fatalf("expected 1 character, got %d", r.CharacterCount)
	}
	// Scene 2 has no cue of its own, so its lines re-scan as action even
	// though the classifier carried ANNA's cue across the heading.
	if r.DialogueLineCount != 1 {
		t.Fatalf("expected 1 dialogue line, got %d", r.DialogueLineCount)
	}
	if r.ActionLineCount != 3 {
		t.Fatalf("expected 3 action lines, got %d", r.ActionLineCount)
	}
	if r.ScenesByCategory[CategoryInterior] != 1 || r.ScenesByCategory[CategoryExterior] != 1 {
		t.Fatalf("unexpected category breakdown: %+v", r.ScenesByCategory)
	}
	if r.ScenesByTime[TimeDay] != 1 || r.ScenesByTime[TimeNight] != 1 {
		t.Fatalf("unexpected time breakdown: %+v", r.ScenesByTime)
	}
	if r.AvgWordsPerScene <= 0 {
		t.Fatalf("expected positive average, got %f", r.AvgWordsPerScene)
	}
	if r.BusiestCharacter != "ANNA" {
		t.Fatalf("expected ANNA, got %q", r.BusiestCharacter)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	r := Summarize(nil, nil)
	if r.SceneCount != 0 || r.CharacterCount != 0 || r.AvgWordsPerScene != 0 || r.BusiestCharacter != "" {
		t.Fatalf("unexpected empty report: %+v", r)
	}
}

func TestSummarizeBusiestTieBreak(t *testing.T) {
	chars := map[string]Appearance{
		"ZOE":  {DialogueCount: 2},
		"ABEL": {DialogueCount: 2},
	}
	r := Summarize(nil, chars)
	if r.BusiestCharacter != "ABEL" {
		t.Fatalf("ties must break by name, got %q", r.BusiestCharacter)
	}
}
