package paint

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"l14layers/pkg/geom"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCompareIdenticalImages(t *testing.T) {
	a := solid(10, 10, red)
	result, err := Compare(a, solid(10, 10, red), DefaultCompareOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !result.Match || result.DifferentPixels != 0 || result.TotalPixels != 100 {
		t.Errorf("result = %+v", result)
	}
}

func TestCompareCountsDifferences(t *testing.T) {
	a := solid(10, 10, white)
	b := solid(10, 10, white)
	b.SetRGBA(3, 3, black)
	b.SetRGBA(4, 4, color.RGBA{R: 254, G: 254, B: 254, A: 255})

	result, err := Compare(a, b, CompareOptions{Tolerance: 2, DiffImage: true})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.Match {
		t.Errorf("images with a black pixel matched")
	}
	if result.DifferentPixels != 1 {
		t.Errorf("DifferentPixels = %d, want 1", result.DifferentPixels)
	}
	if result.MaxDifference != 255 {
		t.Errorf("MaxDifference = %d, want 255", result.MaxDifference)
	}
	if got := result.Diff.RGBAAt(3, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("diff pixel = %v, want red", got)
	}

	lenient, _ := Compare(a, b, CompareOptions{Tolerance: 2, MaxDifferentPercent: 1})
	if !lenient.Match {
		t.Errorf("1%% of pixels differing should pass MaxDifferentPercent=1")
	}
}

func TestCompareFuzzyRadius(t *testing.T) {
	a := solid(10, 10, white)
	b := solid(10, 10, white)
	a.SetRGBA(5, 5, black)
	b.SetRGBA(6, 5, black)

	strict, _ := Compare(a, b, CompareOptions{})
	if strict.Match {
		t.Fatalf("shifted pixel matched without fuzzy radius")
	}
	fuzzy, _ := Compare(a, b, CompareOptions{FuzzyRadius: 1})
	if fuzzy.DifferentPixels >= strict.DifferentPixels {
		t.Errorf("fuzzy radius did not forgive the shifted pixel: %d vs %d", fuzzy.DifferentPixels, strict.DifferentPixels)
	}
}

func TestCompareRejectsSizeMismatch(t *testing.T) {
	if _, err := Compare(solid(10, 10, white), solid(10, 11, white), CompareOptions{}); err == nil {
		t.Errorf("expected an error for differing sizes")
	}
}

func TestCompareFilesWritesDiff(t *testing.T) {
	dir := t.TempDir()
	actual := filepath.Join(dir, "actual.png")
	expected := filepath.Join(dir, "expected.png")
	diff := filepath.Join(dir, "diff.png")

	if err := SavePNG(solid(4, 4, white), actual); err != nil {
		t.Fatal(err)
	}
	if err := SavePNG(solid(4, 4, blue), expected); err != nil {
		t.Fatal(err)
	}
	result, err := CompareFiles(actual, expected, diff, CompareOptions{})
	if err != nil {
		t.Fatalf("CompareFiles: %v", err)
	}
	if result.Match {
		t.Errorf("white and blue matched")
	}
	if _, err := LoadPNG(diff); err != nil {
		t.Errorf("diff image not written: %v", err)
	}
	if _, err := CompareFiles(filepath.Join(dir, "missing.png"), expected, "", CompareOptions{}); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestCanvasRoundTripsThroughPNG(t *testing.T) {
	c := NewCanvas(8, 8, white)
	c.FillRect(geom.R(2, 2, 4, 4), red, 0)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	loaded, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}
	result, err := Compare(loaded, c.Image(), CompareOptions{})
	if err != nil || !result.Match {
		t.Errorf("saved canvas differs from the in-memory image: %+v %v", result, err)
	}
}

func TestScale(t *testing.T) {
	img := solid(10, 6, red)
	img.SetRGBA(0, 0, blue)

	doubled := Scale(img, 2)
	if got := doubled.Bounds().Size(); got != image.Pt(20, 12) {
		t.Fatalf("size = %v, want 20x12", got)
	}
	assertPixel(t, doubled, 15, 8, red)

	same := Scale(img, 1)
	if same == img {
		t.Errorf("Scale(1) returned its input")
	}
	result, err := Compare(same, img, CompareOptions{})
	if err != nil || !result.Match {
		t.Errorf("Scale(1) changed the image: %+v %v", result, err)
	}

	if got := Scale(img, 0.01).Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("tiny scale size = %v, want 1x1", got)
	}
}
