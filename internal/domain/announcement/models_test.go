package announcement

import "testing"

func TestSortPinnedFirst(t *testing.T) {
	items := []Announcement{
		{ID: "1", Title: "Office move"},
		{ID: "2", Title: "Holiday", IsPinned: true},
		{ID: "3", Title: "Parking"},
		{ID: "4", Title: "Town hall", IsPinned: true},
	}
	got := SortPinnedFirst(items)
	want := []string{"2", "4", "1", "3"}
	for i, id := range want {
		if string(got[i].ID) != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if items[0].ID != "1" {
		t.Fatal("input slice must not be reordered")
	}
}
