package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decoder registration

	"golang.org/x/image/draw"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Per-image byte budgets keyed by visual richness.
const (
	budgetMinimal  = 120 << 10
	budgetStandard = 200 << 10
	budgetRich     = 300 << 10
)

// aggregateBudget is the printable-document budget for all images combined.
const aggregateBudget = 4 << 20

// jpegQualitySteps are tried in order until the image fits its budget.
var jpegQualitySteps = []int{85, 70, 55, 40}

// BudgetFor returns the per-image byte budget for a richness setting.
func BudgetFor(richness types.VisualRichness) int {
	switch richness {
	case types.RichnessMinimal:
		return budgetMinimal
	case types.RichnessRich:
		return budgetRich
	default:
		return budgetStandard
	}
}

// Compress re-encodes an image under the given byte budget, downscaling when
// quality reduction alone is not enough. Content already under budget that
// cannot be decoded is returned unchanged.
func Compress(content []byte, budget int) ([]byte, string, error) {
	if len(content) <= budget {
		return content, "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	for _, quality := range jpegQualitySteps {
		encoded, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, "", err
		}
		if len(encoded) <= budget {
			return encoded, "image/jpeg", nil
		}
	}

	// Quality steps were not enough; halve dimensions until it fits or the
	// image becomes degenerate.
	for i := 0; i < 4; i++ {
		img = downscale(img, 2)
		encoded, err := encodeJPEG(img, jpegQualitySteps[len(jpegQualitySteps)-1])
		if err != nil {
			return nil, "", err
		}
		if len(encoded) <= budget {
			return encoded, "image/jpeg", nil
		}
		bounds := img.Bounds()
		if bounds.Dx() < 64 || bounds.Dy() < 64 {
			return encoded, "image/jpeg", nil // as small as it gets
		}
	}

	encoded, err := encodeJPEG(img, jpegQualitySteps[len(jpegQualitySteps)-1])
	if err != nil {
		return nil, "", err
	}
	return encoded, "image/jpeg", nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(img image.Image, factor int) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()/factor, bounds.Dy()/factor))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// CompressAll compresses every successful result in place to the richness
// budget and reports whether the aggregate output size fits the printable
// budget. Per-image compression failures keep the original bytes; aggregate
// overflow is the caller's warning to log, never a fatal error.
func CompressAll(results []types.ImageResult, richness types.VisualRichness) (withinBudget bool) {
	budget := BudgetFor(richness)

	total := 0
	for i := range results {
		compressed, mimeType, err := Compress(results[i].Content, budget)
		if err != nil {
			fmt.Printf("Warning: failed to compress image %q, keeping original: %v\n", results[i].Placement.ID, err)
			total += len(results[i].Content)
			continue
		}
		results[i].Content = compressed
		if mimeType != "" {
			results[i].MIMEType = mimeType
		}
		total += len(compressed)
	}

	return total <= aggregateBudget
}
