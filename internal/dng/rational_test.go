package dng

import "testing"

// TestURational_AsReal64_ZeroDenominator는 테스트 코드 동작을 검증하거나 보조합니다.
func TestURational_AsReal64_ZeroDenominator(t *testing.T) {
	// 분모가 0이면 나눗셈 없이 정확히 0.0이어야 한다.
	if v := (URational{N: 5, D: 0}).AsReal64(); v != 0 {
		t.Fatalf("expected 0, got %v", v)
	}
	if (URational{N: 5, D: 0}).IsValid() {
		t.Fatal("zero denominator must not be valid")
	}
	if v := (URational{N: 28, D: 10}).AsReal64(); v != 2.8 {
		t.Fatalf("expected 2.8, got %v", v)
	}
}

// TestParseURational는 테스트 코드 동작을 검증하거나 보조합니다.
func TestParseURational(t *testing.T) {
	// XMP의 "n/d" 표기와 정수 표기를 모두 읽어야 한다.
	cases := []struct {
		in   string
		want URational
		ok   bool
	}{
		{"1/125", URational{1, 125}, true},
		{" 28 / 10 ", URational{28, 10}, true},
		{"400", URational{400, 1}, true},
		{"1/", URational{}, false},
		{"-1/2", URational{}, false},
		{"abc", URational{}, false},
	}
	for _, tc := range cases {
		got, ok := parseURational(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseURational(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
