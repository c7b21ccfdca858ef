package application_test

import (
	"reflect"
	"testing"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/application"
)

var defaultKeys = []string{"0", "1", "2", "3"}

func TestPartition_BucketsByIndexCharacter(t *testing.T) {
	names := []string{
		"20250800_a.mp3",
		"20250801_b.mp3",
		"20250801_c.mp3",
		"20250803_d.mp3",
	}

	groups, skipped := application.Partition(names, 7, defaultKeys)

	if len(skipped) != 0 {
		t.Fatalf("skipped: got %v, want none", skipped)
	}

	want := map[string][]string{
		"0": {"20250800_a.mp3"},
		"1": {"20250801_b.mp3", "20250801_c.mp3"},
		"2": nil,
		"3": {"20250803_d.mp3"},
	}

	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups: got %v, want %v", groups, want)
	}
}

func TestPartition_EmptyBucketsAlwaysExist(t *testing.T) {
	groups, _ := application.Partition(nil, 6, defaultKeys)

	if len(groups) != len(defaultKeys) {
		t.Fatalf("bucket count: got %d, want %d", len(groups), len(defaultKeys))
	}
	for _, key := range defaultKeys {
		if _, ok := groups[key]; !ok {
			t.Errorf("bucket %q missing", key)
		}
	}
}

func TestPartition_SkipsShortNames(t *testing.T) {
	groups, skipped := application.Partition([]string{"ab.mp3"}, 6, defaultKeys)

	if len(skipped) != 1 || skipped[0] != "ab.mp3" {
		t.Errorf("skipped: got %v, want [ab.mp3]", skipped)
	}
	for key, files := range groups {
		if len(files) != 0 {
			t.Errorf("bucket %q: got %v, want empty", key, files)
		}
	}
}

func TestPartition_SkipsUnexpectedKeys(t *testing.T) {
	// Index 6 of the stem is "9", outside the expected "0".."3" set.
	groups, skipped := application.Partition([]string{"2025089_x.mp3"}, 6, defaultKeys)

	if len(skipped) != 1 {
		t.Fatalf("skipped: got %v, want one entry", skipped)
	}
	for key, files := range groups {
		if len(files) != 0 {
			t.Errorf("bucket %q: got %v, want empty", key, files)
		}
	}
}

func TestPartition_IgnoresExtensionWhenIndexing(t *testing.T) {
	// The stem is exactly 7 characters; index 6 is its last rune. The
	// extension must not count toward the length check.
	groups, skipped := application.Partition([]string{"2025081.mp3"}, 6, defaultKeys)

	if len(skipped) != 0 {
		t.Fatalf("skipped: got %v, want none", skipped)
	}
	if got := groups["1"]; len(got) != 1 || got[0] != "2025081.mp3" {
		t.Errorf("bucket 1: got %v, want [2025081.mp3]", got)
	}
}

func TestPartition_Deterministic(t *testing.T) {
	names := []string{"20250800_a.mp3", "20250801_b.mp3", "20250802_c.mp3"}

	first, _ := application.Partition(names, 7, defaultKeys)
	second, _ := application.Partition(names, 7, defaultKeys)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("partition not deterministic: %v vs %v", first, second)
	}
}
