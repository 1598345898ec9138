package pgl

import (
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{6}$`)

func TestEncodeAddressKnownVectors(t *testing.T) {
	cases := []struct {
		monsNo, formNo int
		want           string
	}{
		{1, 0, "9a55e5"},
		{445, 0, "474f11"},
		{25, 1, "f7635d"},
		{6, 2, "68035e"},
		{0, 0, "000000"},
	}
	for _, tc := range cases {
		if got := EncodeAddress(tc.monsNo, tc.formNo); got != tc.want {
			t.Fatalf("EncodeAddress(%d, %d) = %q, want %q", tc.monsNo, tc.formNo, got, tc.want)
		}
	}
}

func TestEncodeAddressFixedWidthAndDeterministic(t *testing.T) {
	for monsNo := 0; monsNo <= 1000; monsNo += 7 {
		for formNo := 0; formNo < 40; formNo++ {
			first := EncodeAddress(monsNo, formNo)
			if !tokenPattern.MatchString(first) {
				t.Fatalf("token %q for (%d, %d) is not 6 lowercase hex chars", first, monsNo, formNo)
			}
			if again := EncodeAddress(monsNo, formNo); again != first {
				t.Fatalf("token changed between calls: %q vs %q", first, again)
			}
		}
	}
}

func TestEncodeAddressLargeFormStillMasked(t *testing.T) {
	token := EncodeAddress(1, 1<<20)
	if !tokenPattern.MatchString(token) {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAssetURL(t *testing.T) {
	got := AssetURL("https://cdn.example/share/images/pokemon/{size}/{token}.png", 300, "9a55e5")
	want := "https://cdn.example/share/images/pokemon/300/9a55e5.png"
	if got != want {
		t.Fatalf("AssetURL = %q, want %q", got, want)
	}
}
