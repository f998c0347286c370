package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugToTitle(t *testing.T) {
	assert.Equal(t, "my first post", SlugToTitle("my-first-post"))
	assert.Equal(t, "nohyphen", SlugToTitle("nohyphen"))
	assert.Equal(t, "", SlugToTitle(""))
}
