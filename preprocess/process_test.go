package preprocess

import (
	"testing"

	"github.com/crobbins327/valis/slide"
)

func TestForBrightfieldProducesMaskSameShape(t *testing.T) {
	rows, cols := 16, 16
	p := &slide.Plane{Rows: rows, Cols: cols, Channels: 3, Data: make([]uint16, rows*cols*3)}
	for i := 0; i < rows*cols; i++ {
		p.Data[i*3] = 60000 // saturated red, should read as high colorfulness
	}
	res, err := For(p, nil, slide.Brightfield, Options{})
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if res.Image.Bounds().Dx() != cols || res.Image.Bounds().Dy() != rows {
		t.Fatalf("unexpected image shape")
	}
	if res.Mask.Bounds().Dx() != cols || res.Mask.Bounds().Dy() != rows {
		t.Fatalf("unexpected mask shape")
	}
}

func TestForFluorescenceMissingChannel(t *testing.T) {
	p := &slide.Plane{Rows: 4, Cols: 4, Channels: 1, Data: make([]uint16, 16)}
	_, err := For(p, []slide.Channel{{Name: "GFP"}}, slide.Fluorescence, Options{FluorescenceChannel: "DAPI"})
	if err != ErrChannelNotFound {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestClampSizeContractRejectsInvertedBudget(t *testing.T) {
	_, _, err := ClampSizeContract(1000, 500, nil)
	if err != ErrSizeContract {
		t.Fatalf("expected ErrSizeContract, got %v", err)
	}
}

func TestClampSizeContractShrinksToSmallestSlide(t *testing.T) {
	proc, img, err := ClampSizeContract(850, 850, []int{850, 300, 850})
	if err != nil {
		t.Fatalf("ClampSizeContract: %v", err)
	}
	if proc != 300 || img != 300 {
		t.Fatalf("got proc=%d img=%d, want both 300", proc, img)
	}
}

func TestDenoiseForRigidPreservesFlatRegion(t *testing.T) {
	pix := make([]uint8, 10*10)
	for i := range pix {
		pix[i] = 128
	}
	out := DenoiseForRigid(pix, 10, 10, 1)
	for i, v := range out {
		if v != 128 {
			t.Fatalf("pixel %d: expected flat region to survive median filter unchanged, got %v", i, v)
		}
	}
}

func TestOtsuThresholdSeparatesBimodal(t *testing.T) {
	pix := make([]uint8, 200)
	for i := 0; i < 100; i++ {
		pix[i] = 10
	}
	for i := 100; i < 200; i++ {
		pix[i] = 240
	}
	th := otsuThreshold(pix)
	if th <= 10 || th >= 240 {
		t.Fatalf("threshold %d should separate the two clusters", th)
	}
}
