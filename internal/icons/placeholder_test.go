package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder_Deterministic(t *testing.T) {
	a := placeholder(64)
	b := placeholder(64)
	require.NotEmpty(t, a.PNG)
	assert.Equal(t, a.PNG, b.PNG, "same size must yield byte-identical data")
}

func TestPlaceholder_Dimensions(t *testing.T) {
	img := placeholder(48)
	assert.Equal(t, 48, img.Width)
	assert.Equal(t, 48, img.Height)
}

func TestPlaceholder_SizesDiffer(t *testing.T) {
	assert.NotEqual(t, placeholder(32).PNG, placeholder(64).PNG)
}

func TestFitDimensions(t *testing.T) {
	w, h := fitDimensions(200, 100, 64)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	w, h = fitDimensions(100, 200, 64)
	assert.Equal(t, 32, w)
	assert.Equal(t, 64, h)

	w, h = fitDimensions(0, 0, 64)
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)
}
