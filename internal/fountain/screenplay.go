/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Screenplay bundles the outputs of one full pipeline run. It is owned by the
// invocation and handed by value to whichever collaborator requested the
// parse.
type Screenplay struct {
	TitlePage  TitlePage             `json:"titlePage"`
	Elements   []Element             `json:"elements"`
	Scenes     []Scene               `json:"scenes"`
	Characters map[string]Appearance `json:"characters"`
}

// Parse runs the whole pipeline over the document text: title-page extraction
// and line classification, then scene segmentation and character extraction
// independently over the element stream. Synchronous, stateless between
// invocations, and total: it never fails on any input.
func Parse(text string) Screenplay {
	title, elements := Classify(text)
	return Screenplay{
		TitlePage:  title,
		Elements:   elements,
		Scenes:     Segment(elements),
		Characters: ExtractCharacters(elements),
	}
}
