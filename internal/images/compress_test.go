package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// noisyPNG encodes a PNG that compresses poorly, so re-encoding budgets are
// actually exercised.
func noisyPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*7 + y*13) % 256),
				G: uint8((x * y) % 256),
				B: uint8((x + y*y) % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBudgetFor(t *testing.T) {
	assert.Equal(t, 120<<10, BudgetFor(types.RichnessMinimal))
	assert.Equal(t, 200<<10, BudgetFor(types.RichnessStandard))
	assert.Equal(t, 300<<10, BudgetFor(types.RichnessRich))
	assert.Equal(t, 200<<10, BudgetFor(types.VisualRichness("")), "unknown richness gets the standard budget")
}

func TestCompress_UnderBudgetIsUntouched(t *testing.T) {
	content := []byte("tiny")

	out, mimeType, err := Compress(content, 1024)
	require.NoError(t, err)

	assert.Equal(t, content, out)
	assert.Empty(t, mimeType, "no re-encode means the MIME type is kept")
}

func TestCompress_ReencodesToFitBudget(t *testing.T) {
	content := noisyPNG(t, 256)
	budget := len(content) / 4

	out, mimeType, err := Compress(content, budget)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(out), budget)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestCompress_UndecodableOverBudgetContentErrors(t *testing.T) {
	content := bytes.Repeat([]byte{0xaa}, 2048)

	_, _, err := Compress(content, 100)

	assert.Error(t, err)
}

func TestCompressAll_ReportsAggregateBudget(t *testing.T) {
	results := []types.ImageResult{
		{Placement: placement("a", 0.9), Content: []byte("small"), MIMEType: "image/png", OK: true},
		{Placement: placement("b", 0.8), Content: []byte("also small"), MIMEType: "image/png", OK: true},
	}

	withinBudget := CompressAll(results, types.RichnessStandard)

	assert.True(t, withinBudget)
	assert.Equal(t, "image/png", results[0].MIMEType, "untouched images keep their MIME type")
}

func TestCompressAll_UncompressibleContentIsKept(t *testing.T) {
	big := bytes.Repeat([]byte{0xbb}, (200<<10)+1)
	results := []types.ImageResult{
		{Placement: placement("a", 0.9), Content: big, MIMEType: "image/png", OK: true},
	}

	withinBudget := CompressAll(results, types.RichnessStandard)

	assert.True(t, withinBudget, "a single over-budget image is still under the aggregate budget")
	assert.Equal(t, big, results[0].Content, "undecodable content is kept as-is")
}
