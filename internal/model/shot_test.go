package model

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestSortShots_NilOrderSortsLast(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shots := []Shot{
		{ID: "shot_03", Order: nil, CreatedAt: base},
		{ID: "shot_01", Order: intPtr(0), CreatedAt: base.Add(time.Minute)},
		{ID: "shot_02", Order: intPtr(1), CreatedAt: base.Add(2 * time.Minute)},
	}

	SortShots(shots)

	want := []string{"shot_01", "shot_02", "shot_03"}
	for i, id := range want {
		if shots[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, shots[i].ID)
		}
	}
}

func TestSortShots_CreatedAtBreaksTies(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shots := []Shot{
		{ID: "later", Order: intPtr(2), CreatedAt: base.Add(time.Hour)},
		{ID: "earlier", Order: intPtr(2), CreatedAt: base},
	}

	SortShots(shots)

	if shots[0].ID != "earlier" || shots[1].ID != "later" {
		t.Errorf("expected [earlier later], got [%s %s]", shots[0].ID, shots[1].ID)
	}
}

func TestSortShots_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shots := []Shot{
		{ID: "b", Order: intPtr(1), CreatedAt: base},
		{ID: "a", Order: intPtr(0), CreatedAt: base},
		{ID: "c", Order: nil, CreatedAt: base},
	}

	SortShots(shots)
	first := make([]string, len(shots))
	for i := range shots {
		first[i] = shots[i].ID
	}

	SortShots(shots)
	for i := range shots {
		if shots[i].ID != first[i] {
			t.Fatalf("second sort changed position %d: %s vs %s", i, first[i], shots[i].ID)
		}
	}
}

func TestShotSettled(t *testing.T) {
	cases := []struct {
		name string
		shot Shot
		want bool
	}{
		{"draft without image", Shot{Status: ShotStatusDraft}, false},
		{"generating", Shot{Status: ShotStatusGenerating}, false},
		{"image present", Shot{Status: ShotStatusGenerating, ImageURL: "https://cdn/img.png"}, true},
		{"rendered", Shot{Status: ShotStatusRendered}, true},
		{"error", Shot{Status: ShotStatusError}, true},
	}

	for _, tc := range cases {
		if got := tc.shot.Settled(); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestAllSettled_EmptyListCounts(t *testing.T) {
	if !AllSettled(nil) {
		t.Error("expected empty list to be settled")
	}

	shots := []Shot{
		{Status: ShotStatusRendered},
		{Status: ShotStatusGenerating},
	}
	if AllSettled(shots) {
		t.Error("expected pending shot to block settlement")
	}

	shots[1].ImageURL = "https://cdn/img.png"
	if !AllSettled(shots) {
		t.Error("expected all shots settled once media arrived")
	}
}
