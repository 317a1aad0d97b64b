package shelters

import "testing"

func TestNormalizeQueryText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"서울시 강남구", "서울특별시 강남구"},
		{"서울특별시 강남구", "서울특별시 강남구"}, // ya normalizado: sin cambios
		{"부산시 해운대구", "부산광역시 해운대구"},
		{"세종시", "세종특별자치시"},
		{"전라북도 전주시", "전북특별자치도 전주시"},
		{"강원도 춘천시", "강원특별자치도 춘천시"},
		{"  대전시  ", "대전광역시"},
		{"", ""},
		{"   ", ""},
		{"행복보호소", "행복보호소"}, // texto sin división administrativa
	}

	for _, tc := range cases {
		if got := NormalizeQueryText(tc.in); got != tc.want {
			t.Fatalf("NormalizeQueryText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeQueryText_Idempotent(t *testing.T) {
	inputs := []string{"서울시 강남구", "부산시", "전라북도 군산시", "제주 보호소"}
	for _, in := range inputs {
		once := NormalizeQueryText(in)
		twice := NormalizeQueryText(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
