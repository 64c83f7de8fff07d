/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"regexp"
	"strings"
)

// Patterns for the classification ladder. The evaluation order in classifyLine
// is load-bearing: several patterns are prefix/suffix variants of each other
// (a dual-dialogue cue is also a valid character cue, a scene heading prefix
// also matches inside a forced heading, and so on).
var (
	rePageBreak  = regexp.MustCompile(`^={3,}$`)
	reScenePfx   = regexp.MustCompile(`^(?:INT[-/.]EXT|I[-/.]E|INT|EXT)\.?(?:\s|$)`)
	reLyric      = regexp.MustCompile(`^~.+~$`)
	reCentered   = regexp.MustCompile(`^>\s*(.*?)\s*<$`)
	reNote       = regexp.MustCompile(`^\[\[(.*)\]\]$`)
	reSynopsis   = regexp.MustCompile(`^=\s+(.*)$`)
	reSection    = regexp.MustCompile(`^(#+)\s+(.*)$`)
	reParen      = regexp.MustCompile(`^\((.*)\)$`)
	reCapsLine   = regexp.MustCompile(`^[A-Z ]+$`)
	reBoldItalic = regexp.MustCompile(`\*\*[^*]+\*\*|__[^_]+__`)
	reBold       = regexp.MustCompile(`\*[^*]+\*`)
	reItalic     = regexp.MustCompile(`_[^_]+_`)
)

// transitionVocab is the closed vocabulary of transition phrases. A line
// classifies as a transition when it starts with one of these, optionally
// followed by trailing text (e.g. "CUT TO:" or "FADE OUT.").
var transitionVocab = []string{
	"FADE IN",
	"FADE OUT",
	"FADE TO",
	"CUT TO",
	"SMASH CUT",
	"MATCH CUT",
	"JUMP CUT",
	"DISSOLVE TO",
	"THE END",
}

// Classify runs the single-pass line classifier over the full document text.
// It returns the title-page table parsed from the leading Key: Value block and
// one Element per non-blank body line, in source order. It never fails:
// unrecognized lines resolve to action.
func Classify(text string) (TitlePage, []Element) {
	title := TitlePage{}
	var elements []Element

	inTitlePage := true
	previousCue := ""
	lineNo := 0

	for _, raw := range splitLines(text) {
		lineNo++
		trim := strings.TrimSpace(raw)
		if trim == "" {
			// Blank lines produce no element and reset no state.
			continue
		}

		if inTitlePage {
			if trim == ":" {
				// Sentinel: ends title-page mode permanently, emits nothing.
				inTitlePage = false
				continue
			}
			if idx := strings.Index(trim, ":"); idx >= 0 {
				key := strings.TrimSpace(trim[:idx])
				if key != "" {
					title[key] = strings.TrimSpace(trim[idx+1:])
					continue
				}
			}
			// First line that does not look like title metadata is the first
			// body line; fall through and classify it.
			inTitlePage = false
		}

		el := classifyLine(trim, raw, lineNo, &previousCue)
		elements = append(elements, el)
	}
	return title, elements
}

// splitLines splits the document on \n, \r\n or a lone \r. A split that cannot
// fail keeps classification total: there is no per-line size cap that could
// drop the remainder of the document after an oversized line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// classifyLine applies the precedence ladder to a single trimmed non-blank
// line. previousCue is the carried cross-line state: it is set by character
// and dual-dialogue cues and survives intervening parentheticals, action and
// blank lines until the next cue overwrites it.
func classifyLine(trim, raw string, lineNo int, previousCue *string) Element {
	el := Element{Raw: raw, LineNumber: lineNo}

	switch {
	case rePageBreak.MatchString(trim):
		el.Kind = KindPageBreak
		el.Text = trim

	case strings.HasPrefix(trim, "!") && reScenePfx.MatchString(trim[1:]):
		el.Kind = KindForcedSceneHeading
		el.Text = strings.TrimSpace(trim[1:])

	case strings.HasPrefix(trim, "@"):
		el.Kind = KindForcedAction
		el.Text = strings.TrimSpace(trim[1:])

	case reLyric.MatchString(trim):
		el.Kind = KindLyric
		el.Text = strings.TrimSpace(strings.Trim(trim, "~"))

	case reCentered.MatchString(trim):
		el.Kind = KindCentered
		el.Text = reCentered.FindStringSubmatch(trim)[1]

	case reNote.MatchString(trim):
		el.Kind = KindNote
		el.Text = strings.TrimSpace(reNote.FindStringSubmatch(trim)[1])

	case reSynopsis.MatchString(trim):
		el.Kind = KindSynopsis
		el.Text = strings.TrimSpace(reSynopsis.FindStringSubmatch(trim)[1])

	case reSection.MatchString(trim):
		m := reSection.FindStringSubmatch(trim)
		el.Kind = KindSection
		el.SectionLevel = len(m[1])
		el.Text = strings.TrimSpace(m[2])

	case isTransition(trim):
		el.Kind = KindTransition
		el.Text = trim

	case reScenePfx.MatchString(trim):
		el.Kind = KindSceneHeading
		el.Text = trim

	case strings.HasSuffix(trim, "^") && isCapsLine(strings.TrimSpace(strings.TrimSuffix(trim, "^"))):
		// Must be tested before the generic character cue or the caret would
		// be swallowed into the name.
		name := strings.TrimSpace(strings.TrimSuffix(trim, "^"))
		el.Kind = KindDualDialogueCue
		el.Text = name
		*previousCue = name

	case reParen.MatchString(trim):
		el.Kind = KindParenthetical
		el.Text = strings.TrimSpace(reParen.FindStringSubmatch(trim)[1])

	case isCapsLine(trim):
		el.Kind = KindCharacterCue
		el.Text = trim
		*previousCue = trim

	case *previousCue != "":
		el.Kind = KindDialogue
		el.Text = trim
		el.Emphasis = detectEmphasis(trim)

	default:
		el.Kind = KindAction
		el.Text = trim
	}
	return el
}

// isCapsLine reports whether the line matches the caps-line grammar of a
// character cue: uppercase letters and spaces only, with at least one letter.
func isCapsLine(s string) bool {
	return reCapsLine.MatchString(s) && strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

func isTransition(s string) bool {
	for _, t := range transitionVocab {
		if strings.HasPrefix(s, t) {
			return true
		}
	}
	return false
}

// detectEmphasis tags the first inline emphasis pattern found on a dialogue
// line. Bold-italic wins over bold, bold over italic; absence leaves the tag
// unset. Classification of the line itself is unaffected.
func detectEmphasis(s string) Emphasis {
	switch {
	case reBoldItalic.MatchString(s):
		return EmphasisBoldItalic
	case reBold.MatchString(s):
		return EmphasisBold
	case reItalic.MatchString(s):
		return EmphasisItalic
	default:
		return EmphasisNone
	}
}
