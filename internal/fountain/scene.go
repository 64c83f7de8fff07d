/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Category is the closed set of scene categories derived from the heading.
type Category int

const (
	CategoryOther Category = iota
	CategoryInterior
	CategoryExterior
	CategoryInteriorExterior
	CategoryMontage
	CategoryFlashback
	CategoryDream
	CategoryFantasy
)

var categoryNames = map[Category]string{
	CategoryOther:            "other",
	CategoryInterior:         "interior",
	CategoryExterior:         "exterior",
	CategoryInteriorExterior: "interior_exterior",
	CategoryMontage:          "montage",
	CategoryFlashback:        "flashback",
	CategoryDream:            "dream",
	CategoryFantasy:          "fantasy",
}

func (c Category) String() string { return categoryNames[c] }

func (c Category) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for cc, name := range categoryNames {
		if name == s {
			*c = cc
			return nil
		}
	}
	return fmt.Errorf("unknown scene category %q", s)
}

// TimeOfDay is the closed vocabulary of time-of-day phrases recognized after
// the " - " separator of a scene heading.
type TimeOfDay int

const (
	TimeDay TimeOfDay = iota
	TimeNight
	TimeMorning
	TimeAfternoon
	TimeEvening
	TimeDawn
	TimeDusk
	TimeContinuous
	TimeLater
	TimeSameTime
)

var timeOfDayNames = map[TimeOfDay]string{
	TimeDay:        "DAY",
	TimeNight:      "NIGHT",
	TimeMorning:    "MORNING",
	TimeAfternoon:  "AFTERNOON",
	TimeEvening:    "EVENING",
	TimeDawn:       "DAWN",
	TimeDusk:       "DUSK",
	TimeContinuous: "CONTINUOUS",
	TimeLater:      "LATER",
	TimeSameTime:   "SAME TIME",
}

func (t TimeOfDay) String() string { return timeOfDayNames[t] }

func (t TimeOfDay) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for tt, name := range timeOfDayNames {
		if name == s {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unknown time of day %q", s)
}

// parseTimeOfDay matches the closed vocabulary, defaulting to DAY when the
// phrase is not recognized. Malformed headings never fail.
func parseTimeOfDay(s string) TimeOfDay {
	s = strings.ToUpper(strings.TrimSpace(s))
	for tt, name := range timeOfDayNames {
		if s == name {
			return tt
		}
	}
	return TimeDay
}

// Scene is one contiguous span of the element stream, from a scene heading
// (inclusive) to the next scene heading (exclusive) or the end of the stream.
type Scene struct {
	Heading           string    `json:"heading"`
	LineNumber        int       `json:"lineNumber"`
	SceneNumber       int       `json:"sceneNumber"`
	Location          string    `json:"location"`
	TimeOfDay         TimeOfDay `json:"timeOfDay"`
	Category          Category  `json:"category"`
	WordCount         int       `json:"wordCount"`
	DialogueLineCount int       `json:"dialogueLineCount"`
	ActionLineCount   int       `json:"actionLineCount"`
	Characters        []string  `json:"characters"`
	Content           string    `json:"content"`
}

// bufferedKinds are the element kinds whose raw lines accumulate into the
// scene content buffer and metric counts. Everything else is ignored for
// buffering purposes.
var bufferedKinds = map[Kind]bool{
	KindAction:        true,
	KindDialogue:      true,
	KindCharacterCue:  true,
	KindParenthetical: true,
	KindTransition:    true,
	KindNote:          true,
}

// Segment groups the element stream into scenes. Scene spans are contiguous
// and exhaustive; elements before the first scene heading belong to no scene.
func Segment(elements []Element) []Scene {
	var scenes []Scene
	var current *Scene
	var buf []string
	var chars map[string]bool

	finalize := func() {
		if current == nil {
			return
		}
		current.Content = strings.Join(buf, "\n")
		current.WordCount = len(strings.Fields(current.Content))
		current.DialogueLineCount, current.ActionLineCount = countDialogueAndAction(buf)
		current.Characters = sortedKeys(chars)
		scenes = append(scenes, *current)
	}

	for _, el := range elements {
		if el.Kind == KindSceneHeading || el.Kind == KindForcedSceneHeading {
			finalize()
			location, tod := parseHeading(el.Text)
			current = &Scene{
				Heading:     el.Text,
				LineNumber:  el.LineNumber,
				SceneNumber: len(scenes) + 1,
				Location:    location,
				TimeOfDay:   tod,
				Category:    headingCategory(el.Text),
			}
			buf = nil
			chars = map[string]bool{}
			continue
		}
		if current == nil {
			continue
		}
		if bufferedKinds[el.Kind] {
			buf = append(buf, el.Raw)
		}
		if el.Kind == KindCharacterCue || el.Kind == KindDualDialogueCue {
			chars[el.Text] = true
		}
	}
	finalize()
	return scenes
}

// parseHeading splits the heading text on the first " - " separator: the part
// before is the location, the part after is matched against the time-of-day
// vocabulary. A heading without a separator yields the whole text as location
// and the default time of day.
func parseHeading(heading string) (string, TimeOfDay) {
	if idx := strings.Index(heading, " - "); idx >= 0 {
		return strings.TrimSpace(heading[:idx]), parseTimeOfDay(heading[idx+3:])
	}
	return strings.TrimSpace(heading), TimeDay
}

// headingCategory derives the scene category by substring search on the
// uppercased heading. Compound interior/exterior tokens are checked ahead of
// the plain INT/EXT tokens they contain.
func headingCategory(heading string) Category {
	h := strings.ToUpper(heading)
	switch {
	case strings.Contains(h, "INT-EXT") || strings.Contains(h, "INT/EXT") ||
		strings.Contains(h, "INT./EXT") || strings.Contains(h, "I/E") || strings.Contains(h, "I-E"):
		return CategoryInteriorExterior
	case strings.Contains(h, "INT"):
		return CategoryInterior
	case strings.Contains(h, "EXT"):
		return CategoryExterior
	case strings.Contains(h, "MONTAGE"):
		return CategoryMontage
	case strings.Contains(h, "FLASHBACK"):
		return CategoryFlashback
	case strings.Contains(h, "DREAM"):
		return CategoryDream
	case strings.Contains(h, "FANTASY"):
		return CategoryFantasy
	default:
		return CategoryOther
	}
}

// countDialogueAndAction re-scans the buffered raw lines with the same
// heuristics the classifier uses. A local pending-cue flag mirrors the
// carried parser state: once a caps cue is seen, following countable lines
// are dialogue until the scan ends. Cues, parentheticals and heading-prefixed
// lines are excluded from both counts.
func countDialogueAndAction(buf []string) (dialogue, action int) {
	pending := false
	for _, raw := range buf {
		trim := strings.TrimSpace(raw)
		if trim == "" {
			continue
		}
		switch {
		case reParen.MatchString(trim), reScenePfx.MatchString(trim), isTransition(trim):
			// excluded
		case isCapsLine(trim):
			pending = true
		case pending:
			dialogue++
		default:
			action++
		}
	}
	return dialogue, action
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
