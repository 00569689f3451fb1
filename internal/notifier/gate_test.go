package notifier

import "testing"

func TestShouldNotify(t *testing.T) {
	cases := []struct {
		latest, last string
		repost       bool
		want         bool
	}{
		{"v2", "v1", false, true},
		{"v1", "v1", false, false},
		{"v1", "v1", true, true},
		{"v2", "v1", true, true},
		{"abc123", "", false, true},
	}
	for _, tc := range cases {
		if got := ShouldNotify(tc.latest, tc.last, tc.repost); got != tc.want {
			t.Fatalf("ShouldNotify(%q, %q, %v) = %v, want %v", tc.latest, tc.last, tc.repost, got, tc.want)
		}
	}
}
