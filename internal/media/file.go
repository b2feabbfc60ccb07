package media

import (
	"bytes"
	"io"
	"mime/multipart"
)

// File is an image picked for upload but not yet stored.
type File interface {
	Name() string
	Size() int64
	// ContentType is the type declared by the client.
	ContentType() string
	Open() (io.ReadCloser, error)
}

type headerFile struct {
	fh *multipart.FileHeader
}

// FromFileHeader adapts a multipart upload part.
func FromFileHeader(fh *multipart.FileHeader) File {
	return headerFile{fh: fh}
}

func (f headerFile) Name() string        { return f.fh.Filename }
func (f headerFile) Size() int64         { return f.fh.Size }
func (f headerFile) ContentType() string { return f.fh.Header.Get("Content-Type") }

func (f headerFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

type bytesFile struct {
	name        string
	contentType string
	data        []byte
}

// NewBytesFile wraps in-memory content as a File.
func NewBytesFile(name, contentType string, data []byte) File {
	return bytesFile{name: name, contentType: contentType, data: data}
}

func (f bytesFile) Name() string        { return f.name }
func (f bytesFile) Size() int64         { return int64(len(f.data)) }
func (f bytesFile) ContentType() string { return f.contentType }

func (f bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
