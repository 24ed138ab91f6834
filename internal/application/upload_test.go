package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func TestCheckResume(t *testing.T) {
	cases := []struct {
		name    string
		ref     FileRef
		wantErr error
		message string
	}{
		{name: "plain text rejected", ref: FileRef{Name: "notes.txt", Type: "text/plain", Size: 200}, wantErr: ErrUnsupportedType, message: "Please upload a PDF or DOC file"},
		{name: "4MB pdf accepted", ref: FileRef{Name: "cv.pdf", Type: TypePDF, Size: 4 * mb}},
		{name: "5MB pdf accepted", ref: FileRef{Name: "cv.pdf", Type: TypePDF, Size: 5 * mb}},
		{name: "6MB pdf rejected", ref: FileRef{Name: "cv.pdf", Type: TypePDF, Size: 6 * mb}, wantErr: ErrFileTooLarge, message: "File size must be less than 5MB"},
		{name: "doc accepted", ref: FileRef{Name: "cv.doc", Type: TypeDOC, Size: 1024}},
		{name: "docx accepted", ref: FileRef{Name: "cv.docx", Type: TypeDOCX, Size: 1024}},
		{name: "type checked first", ref: FileRef{Name: "huge.png", Type: "image/png", Size: 9 * mb}, wantErr: ErrUnsupportedType, message: "Please upload a PDF or DOC file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckResume(tc.ref)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
			var fe *FileError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.message, fe.Message)
		})
	}
}

func TestFileRefFromPath(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4\n%fake"), 0o644))
	ref, err := FileRefFromPath(pdf)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", ref.Name)
	assert.Equal(t, TypePDF, ref.Type)
	assert.Equal(t, int64(14), ref.Size)

	docx := filepath.Join(dir, "Resume.DOCX")
	require.NoError(t, os.WriteFile(docx, []byte("PK"), 0o644))
	ref, err = FileRefFromPath(docx)
	require.NoError(t, err)
	assert.Equal(t, TypeDOCX, ref.Type)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello there"), 0o644))
	ref, err = FileRefFromPath(txt)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ref.Type)
	assert.Error(t, CheckResume(ref))

	sniffed := filepath.Join(dir, "resume")
	require.NoError(t, os.WriteFile(sniffed, []byte("%PDF-1.7\n1 0 obj\n"), 0o644))
	ref, err = FileRefFromPath(sniffed)
	require.NoError(t, err)
	assert.Equal(t, TypePDF, ref.Type)

	_, err = FileRefFromPath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
	_, err = FileRefFromPath(dir)
	assert.Error(t, err)
}

func TestFileRefFromPastedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	for _, pasted := range []string{
		"'" + path + "'",
		`"` + path + `"`,
		"  " + path + "\n",
		filepath.Join(dir, `my\ resume.pdf`),
		"file://" + path,
	} {
		ref, err := FileRefFromPath(pasted)
		require.NoError(t, err, pasted)
		assert.Equal(t, "my resume.pdf", ref.Name)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		0:             "0 Bytes",
		512:           "512 Bytes",
		1024:          "1 KB",
		12800:         "12.5 KB",
		1536 * 1024:   "1.5 MB",
		4 * mb:        "4 MB",
		5*mb - 1:      "5 MB",
		3 * 1024 * mb: "3072 MB",
		1234567:       "1.18 MB",
	}
	for bytes, want := range cases {
		assert.Equal(t, want, FormatFileSize(bytes), "bytes=%d", bytes)
	}
}
