/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"reflect"
	"testing"
)

func TestParseEndToEnd(t *testing.T) {
	input := "INT. KITCHEN - NIGHT\nTom paces.\nTOM\nI can't sleep.\nEXT. YARD - DAY\nTom waters the plants.\n"
	sp := Parse(input)
	if len(sp.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(sp.Scenes))
	}
	if sp.Scenes[0].Heading != "INT. KITCHEN - NIGHT" || sp.Scenes[1].Heading != "EXT. YARD - DAY" {
		t.Fatalf("unexpected headings: %+v", sp.Scenes)
	}
	if sp.Scenes[0].DialogueLineCount != 1 || sp.Scenes[0].ActionLineCount != 1 {
		t.Fatalf("unexpected scene 1 counts: %+v", sp.Scenes[0])
	}
	rec, ok := sp.Characters["TOM"]
	if !ok {
		t.Fatalf("expected TOM in character table: %+v", sp.Characters)
	}
	want := Appearance{FirstAppearanceLine: 3, LastAppearanceLine: 3, DialogueCount: 1, SceneCount: 1}
	if rec != want {
		t.Fatalf("expected %+v, got %+v", want, rec)
	}
}

func TestParseTitlePageAndScene(t *testing.T) {
	sp := Parse("Title: X\nAuthor: Y\n:\n\nINT. ROOM - DAY\n")
	if len(sp.TitlePage) != 2 || sp.TitlePage["Title"] != "X" || sp.TitlePage["Author"] != "Y" {
		t.Fatalf("unexpected title page: %+v", sp.TitlePage)
	}
	if len(sp.Scenes) != 1 || sp.Scenes[0].Heading != "INT. ROOM - DAY" {
		t.Fatalf("unexpected scenes: %+v", sp.Scenes)
	}
}

func TestParseIdempotence(t *testing.T) {
	input := "Title: X\n:\nINT. A - DAY\nANNA\nHi.\nEXT. B - NIGHT\nShe leaves.\n"
	first := Parse(input)
	second := Parse(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-running the pipeline must yield identical results:\n%+v\nvs\n%+v", first, second)
	}
}

func TestParseNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		":",
		"((((",
		"= \n== \n===",
		"]]broken[[ markers ~",
	}
	for _, in := range inputs {
		sp := Parse(in)
		for _, el := range sp.Elements {
			if el.LineNumber < 1 {
				t.Fatalf("input %q: invalid line number in %+v", in, el)
			}
		}
	}
}
