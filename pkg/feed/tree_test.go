package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func records(paths ...string) []FileRecord {
	out := make([]FileRecord, len(paths))
	for i, p := range paths {
		out[i] = FileRecord{Path: p}
	}
	return out
}

func TestRenderTreeEmpty(t *testing.T) {
	assert.Equal(t, "./\n", RenderTree(nil))
}

func TestRenderTreeSingleFile(t *testing.T) {
	want := "./\n" +
		"└── a.txt\n"
	assert.Equal(t, want, RenderTree(records("a.txt")))
}

func TestRenderTreeNested(t *testing.T) {
	got := RenderTree(records("src/main.go", "src/util/io.go", "README.md"))
	want := "./\n" +
		"├── src/\n" +
		"│   ├── util/\n" +
		"│   │   └── io.go\n" +
		"│   └── main.go\n" +
		"└── README.md\n"
	assert.Equal(t, want, got)
}

func TestRenderTreeDirsBeforeFiles(t *testing.T) {
	got := RenderTree(records("zz.txt", "aa/b.txt"))
	want := "./\n" +
		"├── aa/\n" +
		"│   └── b.txt\n" +
		"└── zz.txt\n"
	assert.Equal(t, want, got)
}
