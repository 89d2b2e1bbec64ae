package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		url  string
		want int
	}{
		{"/post", 0},
		{"/post?limit=10", 10},
		{"/post?limit=0", 0},
		{"/post?limit=-5", 0},
		{"/post?limit=abc", 0},
		{"/post?limit=500", PageSize},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		if got := ParseLimit(r); got != tc.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tc.url, got, tc.want)
		}
	}
}

func TestTrimPage(t *testing.T) {
	rows := []int{1, 2, 3}
	if res := TrimPage(&rows, 2); !res.HasNext || len(rows) != 2 {
		t.Errorf("look-ahead row present: hasNext = %v, len = %d", res.HasNext, len(rows))
	}

	rows = []int{1, 2}
	if res := TrimPage(&rows, 2); res.HasNext || len(rows) != 2 {
		t.Errorf("exact page: hasNext = %v, len = %d", res.HasNext, len(rows))
	}

	rows = []int{1, 2, 3}
	if res := TrimPage(&rows, 0); res.HasNext || len(rows) != 3 {
		t.Errorf("unpaged: hasNext = %v, len = %d", res.HasNext, len(rows))
	}
}
