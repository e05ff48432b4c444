package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "resume.TXT")
	require.NoError(t, os.WriteFile(p, []byte("Jane Doe\nEngineer"), 0o644))

	got, err := NewDocumentExtractor().ExtractText(p)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nEngineer", got)
}

func TestExtractTextErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDocumentExtractor().ExtractText(filepath.Join(dir, "photo.png"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0o644))
	_, err = NewDocumentExtractor().ExtractText(broken)
	assert.ErrorIs(t, err, ErrExtraction)

	_, err = NewDocumentExtractor().ExtractText(filepath.Join(dir, "missing.docx"))
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestDocxPlainText(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>R&amp;D</w:t><w:tab/><w:t>Lead</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "Jane Doe\nR&D\tLead", docxPlainText(xml))
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("cv.PDF"))
	assert.True(t, IsDocument("cv.docx"))
	assert.True(t, IsDocument("cv.txt"))
	assert.False(t, IsDocument("cv.doc"))
	assert.False(t, IsDocument("matrix.xlsx"))
}
