package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProjectJSONRoundTrip(t *testing.T) {
	p := Project{
		Name: "RoundTrip",
		Metadata: Metadata{
			Title:  "Night Shift",
			Author: "J. Doe",
		},
		Drafts: []Draft{
			{Number: 1, Label: "first draft", SavedAt: "2026-08-01T12:00:00Z"},
			{Number: 2},
		},
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != p.Name || got.Metadata.Title != p.Metadata.Title {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if len(got.Drafts) != 2 || got.Drafts[0].Label != "first draft" {
		t.Fatalf("drafts mismatch: %+v", got.Drafts)
	}
}

func TestDraftOptionalFieldsOmitted(t *testing.T) {
	b, err := json.Marshal(Draft{Number: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, key := range []string{"label", "snapshotId", "savedAt"} {
		if strings.Contains(s, key) {
			t.Fatalf("expected %s omitted, got %s", key, s)
		}
	}
}
