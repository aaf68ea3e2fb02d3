package extract

import (
	"testing"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PlainText(t *testing.T) {
	r := NewRegistry()

	text, sourceType, err := r.Extract("notes.txt", []byte("hello world"))

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, domain.SourceTypeWiki, sourceType)
}

func TestRegistry_Markdown(t *testing.T) {
	r := NewRegistry()

	text, sourceType, err := r.Extract("README.md", []byte("# Title\n\nbody"))

	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", text)
	assert.Equal(t, domain.SourceTypeWiki, sourceType)
}

func TestRegistry_UnsupportedExtension(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.Extract("archive.zip", []byte{0x50, 0x4b})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestRegistry_ExtensionCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	text, _, err := r.Extract("NOTES.TXT", []byte("upper"))

	require.NoError(t, err)
	assert.Equal(t, "upper", text)
}

func TestRegistry_CustomExtractor(t *testing.T) {
	r := NewRegistry()
	r.Register(".html", &PlainText{})

	text, _, err := r.Extract("page.html", []byte("<p>raw</p>"))

	require.NoError(t, err)
	assert.Equal(t, "<p>raw</p>", text)
}

func TestPDF_InvalidData(t *testing.T) {
	e := &PDF{}

	_, err := e.Extract([]byte("not a pdf"))

	assert.Error(t, err)
}
