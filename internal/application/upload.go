package application

import (
	"errors"
	"fmt"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Accepted resume content types.
const (
	TypePDF  = "application/pdf"
	TypeDOC  = "application/msword"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxResumeSize is the largest accepted resume, inclusive.
const MaxResumeSize int64 = 5 * 1024 * 1024

// ResumeExtensions are the file suffixes the picker offers.
var ResumeExtensions = []string{".pdf", ".doc", ".docx"}

var (
	ErrUnsupportedType = errors.New("application: unsupported resume type")
	ErrFileTooLarge    = errors.New("application: resume too large")
)

// FileError is a rejected upload. Message is shown inline under the uploader.
type FileError struct {
	Name    string
	Message string
	Err     error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *FileError) Unwrap() error { return e.Err }

// FileRef describes an uploaded file.
type FileRef struct {
	Name string
	Path string
	Size int64
	Type string
}

var extensionTypes = map[string]string{
	".pdf":  TypePDF,
	".doc":  TypeDOC,
	".docx": TypeDOCX,
}

// CheckResume reports why ref cannot be accepted as a resume, or nil.
func CheckResume(ref FileRef) error {
	if !allowedType(ref.Type) {
		return &FileError{Name: ref.Name, Message: "Please upload a PDF or DOC file", Err: ErrUnsupportedType}
	}
	if ref.Size > MaxResumeSize {
		return &FileError{Name: ref.Name, Message: "File size must be less than 5MB", Err: ErrFileTooLarge}
	}
	return nil
}

func allowedType(contentType string) bool {
	switch contentType {
	case TypePDF, TypeDOC, TypeDOCX:
		return true
	}
	return false
}

// FileRefFromPath describes the file at path. The type comes from the
// extension; files without a recognised extension are sniffed.
func FileRefFromPath(path string) (FileRef, error) {
	path = cleanPastedPath(path)
	if path == "" {
		return FileRef{}, fmt.Errorf("application: empty path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("application: stat resume: %w", err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("application: %s is a directory", path)
	}
	ref := FileRef{
		Name: info.Name(),
		Path: path,
		Size: info.Size(),
		Type: typeFromExtension(path),
	}
	if ref.Type == "" {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return FileRef{}, fmt.Errorf("application: detect type: %w", err)
		}
		ref.Type = baseMediaType(detected.String())
	}
	return ref, nil
}

func typeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return baseMediaType(mime.TypeByExtension(ext))
}

func baseMediaType(value string) string {
	if value == "" {
		return ""
	}
	media, _, err := mime.ParseMediaType(value)
	if err != nil {
		return value
	}
	return media
}

// cleanPastedPath strips the quoting terminals add when a file is dropped
// onto the window.
func cleanPastedPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if (path[0] == '\'' && path[len(path)-1] == '\'') || (path[0] == '"' && path[len(path)-1] == '"') {
			path = path[1 : len(path)-1]
		}
	}
	path = strings.TrimPrefix(path, "file://")
	return strings.ReplaceAll(path, `\ `, " ")
}

var sizeUnits = []string{"Bytes", "KB", "MB"}

// FormatFileSize renders bytes with 1024-based units and at most two
// decimals, e.g. "0 Bytes", "12.5 KB", "4 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := 0
	scale := int64(1)
	for i < len(sizeUnits)-1 && bytes >= scale*1024 {
		scale *= 1024
		i++
	}
	value := math.Round(float64(bytes)/float64(scale)*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
