package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndent_Plain(t *testing.T) {
	p := NewPalette(false)
	assert.Equal(t, "", Indent(p, 0))
	assert.Equal(t, "  ", Indent(p, 1))
	assert.Equal(t, "      ", Indent(p, 3))
}

func TestIndent_ColorizedUsesBars(t *testing.T) {
	p := NewPalette(true)
	out := Indent(p, 2)
	assert.Equal(t, 2, strings.Count(out, "│"))
	assert.Equal(t, strings.Repeat(p.Gray.Sprint("│")+" ", 2), out)
}

func TestIndent_NegativeDepth(t *testing.T) {
	assert.Equal(t, "", Indent(NewPalette(false), -1))
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "c/d.test.js", RelPath("/a/b", "/a/b/c/d.test.js"))
	assert.Equal(t, "/x/y.test.js", RelPath("/a/b", "/x/y.test.js"))
	assert.Equal(t, "same.test.js", RelPath("/a/b", "/a/b/same.test.js"))
	assert.Equal(t, "", RelPath("/a/b", ""))
	assert.Equal(t, "/a/b/c.js", RelPath("", "/a/b/c.js"))
}
