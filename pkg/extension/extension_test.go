package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("https://cdn.shop/widget.png"))
	assert.True(t, IsImage("https://cdn.shop/widget.JPG"))
	assert.True(t, IsImage("widget.webp"))

	assert.False(t, IsImage("https://cdn.shop/widget"))
	assert.False(t, IsImage("https://cdn.shop/widget.html"))
	assert.False(t, IsImage(""))
}
