/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain implements the screenplay markup pipeline: a single-pass
// line classifier that turns raw text into typed elements plus a title-page
// table, a scene segmenter that derives scene records with metrics, and a
// character extractor that derives per-character appearance statistics.
// The whole pipeline is pure: every call recomputes everything from the full
// text, no state survives between invocations.
package fountain

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a single physical source line.
type Kind int

const (
	KindAction Kind = iota
	KindSceneHeading
	KindForcedSceneHeading
	KindForcedAction
	KindCharacterCue
	KindDualDialogueCue
	KindDialogue
	KindParenthetical
	KindTransition
	KindSection
	KindSynopsis
	KindNote
	KindCentered
	KindPageBreak
	KindLyric
)

var kindNames = map[Kind]string{
	KindAction:             "action",
	KindSceneHeading:       "scene_heading",
	KindForcedSceneHeading: "forced_scene_heading",
	KindForcedAction:       "forced_action",
	KindCharacterCue:       "character_cue",
	KindDualDialogueCue:    "dual_dialogue_cue",
	KindDialogue:           "dialogue",
	KindParenthetical:      "parenthetical",
	KindTransition:         "transition",
	KindSection:            "section",
	KindSynopsis:           "synopsis",
	KindNote:               "note",
	KindCentered:           "centered",
	KindPageBreak:          "page_break",
	KindLyric:              "lyric",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "action"
}

// MarshalJSON encodes the kind as its stable string name so exports are
// self-describing.
func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kk, name := range kindNames {
		if name == s {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", s)
}

// Emphasis tags inline bold/italic markers found on a dialogue line.
// It is line-level only; span highlighting is a UI concern.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisBold
	EmphasisItalic
	EmphasisBoldItalic
)

var emphasisNames = map[Emphasis]string{
	EmphasisNone:       "",
	EmphasisBold:       "bold",
	EmphasisItalic:     "italic",
	EmphasisBoldItalic: "bold_italic",
}

func (e Emphasis) String() string { return emphasisNames[e] }

func (e Emphasis) MarshalJSON() ([]byte, error) { return json.Marshal(e.String()) }

func (e *Emphasis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for ee, name := range emphasisNames {
		if name == s {
			*e = ee
			return nil
		}
	}
	return fmt.Errorf("unknown emphasis %q", s)
}

// Element is one classified unit of markup corresponding to one physical
// non-blank source line. Text carries the content with markup delimiters
// stripped; Raw preserves the original line for lossless re-display.
// LineNumber is the 1-based source line index and is the stable identity
// downstream stages refer to.
type Element struct {
	Kind         Kind     `json:"kind"`
	Text         string   `json:"text"`
	Raw          string   `json:"raw"`
	LineNumber   int      `json:"lineNumber"`
	SectionLevel int      `json:"sectionLevel,omitempty"`
	Emphasis     Emphasis `json:"emphasis,omitempty"`
}

// TitlePage is the leading Key: Value metadata block. Last value wins on
// duplicate keys; consumers must not rely on any ordering.
type TitlePage map[string]string
