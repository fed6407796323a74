package imgstat

import "testing"

func TestMeanStd(t *testing.T) {
	pix := []uint8{0, 0, 255, 255}
	mean, std := MeanStd(pix)
	if mean < 127 || mean > 128 {
		t.Fatalf("unexpected mean %v", mean)
	}
	if std <= 0 {
		t.Fatalf("expected positive std, got %v", std)
	}
}

func TestHistogramMatchIsIdentityOnSelf(t *testing.T) {
	pix := []uint8{10, 10, 200, 50, 50, 50}
	cdf := CDF(Histogram256(pix))
	out := MatchHistogram(pix, cdf)
	for i := range pix {
		if out[i] != pix[i] {
			t.Fatalf("matching to own CDF should be identity, got %v want %v", out[i], pix[i])
		}
	}
}

func TestNormalizeShiftsMeanAndStd(t *testing.T) {
	pix := []uint8{100, 100, 150, 150}
	mean, std := MeanStd(pix)
	out := Normalize(pix, mean, std, 128, 40)
	gotMean, gotStd := MeanStd(out)
	if gotMean < 127 || gotMean > 129 {
		t.Fatalf("unexpected normalized mean %v", gotMean)
	}
	if gotStd < 38 || gotStd > 42 {
		t.Fatalf("unexpected normalized std %v", gotStd)
	}
}
