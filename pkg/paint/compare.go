package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference found
	Diff            *image.RGBA
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance is the largest per-channel difference (0-255) still counted
	// as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any expected pixel within this radius.
	FuzzyRadius int

	// MaxDifferentPercent passes the comparison when at most this share of
	// pixels differ.
	MaxDifferentPercent float64

	// DiffImage asks for a diff image: differing pixels red, the rest grey.
	DiffImage bool
}

// DefaultCompareOptions allows small anti-aliasing differences.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare compares two images pixel by pixel.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	ab, eb := actual.Bounds(), expected.Bounds()
	if ab.Size() != eb.Size() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", ab.Size(), eb.Size())
	}

	result := &CompareResult{Match: true, TotalPixels: ab.Dx() * ab.Dy()}
	if opts.DiffImage {
		result.Diff = image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	}

	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			a := actual.At(ab.Min.X+x, ab.Min.Y+y)
			diff := channelDiff(a, expected.At(eb.Min.X+x, eb.Min.Y+y))
			result.MaxDifference = max(result.MaxDifference, diff)

			same := diff <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(a, expected, eb, x, y, opts.FuzzyRadius, opts.Tolerance))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if result.Diff != nil {
				if same {
					g := color.GrayModel.Convert(a).(color.Gray).Y
					result.Diff.Set(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
				} else {
					result.Diff.Set(x, y, color.RGBA{R: 255, A: 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		if pct <= opts.MaxDifferentPercent {
			result.Match = true
		}
	}
	return result, nil
}

// CompareFiles compares two PNG files and writes the diff image to diffPath
// when one is requested and the images differ.
func CompareFiles(actualPath, expectedPath, diffPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := LoadPNG(actualPath)
	if err != nil {
		return nil, err
	}
	expected, err := LoadPNG(expectedPath)
	if err != nil {
		return nil, err
	}
	opts.DiffImage = opts.DiffImage || diffPath != ""
	result, err := Compare(actual, expected, opts)
	if err != nil {
		return result, err
	}
	if diffPath != "" && !result.Match {
		if err := SavePNG(result.Diff, diffPath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

func channelDiff(a, e color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	er, eg, eb, ea := e.RGBA()
	return max(
		absInt(int(ar>>8)-int(er>>8)),
		absInt(int(ag>>8)-int(eg>>8)),
		absInt(int(ab>>8)-int(eb>>8)),
		absInt(int(aa>>8)-int(ea>>8)),
	)
}

// fuzzyMatch checks whether a matches any expected pixel within radius of
// (x, y).
func fuzzyMatch(a color.Color, expected image.Image, eb image.Rectangle, x, y, radius, tolerance int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= eb.Dx() || ny < 0 || ny >= eb.Dy() {
				continue
			}
			if channelDiff(a, expected.At(eb.Min.X+nx, eb.Min.Y+ny)) <= tolerance {
				return true
			}
		}
	}
	return false
}

// LoadPNG decodes the PNG at path.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG encodes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
