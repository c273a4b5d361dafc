package shelterapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Body is an encoded request body together with its content type.
type Body struct {
	data        []byte
	contentType string
}

// ContentType returns the value to send as the Content-Type header.
func (b *Body) ContentType() string { return b.contentType }

// Bytes returns the encoded body.
func (b *Body) Bytes() []byte { return b.data }

// Reader returns a fresh reader over the encoded body.
func (b *Body) Reader() io.Reader { return bytes.NewReader(b.data) }

// JSON encodes data as a JSON request body. Encoding failures are returned
// unchanged.
func JSON(data any) (*Body, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Body{data: encoded, contentType: ContentTypeJSON}, nil
}

// FormFile is a form field value sent as a file part.
type FormFile struct {
	Filename    string
	ContentType string // defaults to application/octet-stream
	Content     io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FormData encodes fields as multipart/form-data, one part per field in
// order. FormFile values become file parts; anything else is sent as its
// string form.
func FormData(fields Fields) (*Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		switch v := f.Value.(type) {
		case FormFile:
			if err := writeFile(w, f.Name, &v); err != nil {
				return nil, err
			}
		case *FormFile:
			if err := writeFile(w, f.Name, v); err != nil {
				return nil, err
			}
		default:
			value := ""
			if !isUnset(v) {
				value = stringify(v)
			}
			if err := w.WriteField(f.Name, value); err != nil {
				return nil, err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &Body{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}

func writeFile(w *multipart.Writer, name string, file *FormFile) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(file.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if file.Content == nil {
		return nil
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("write form file %q: %w", name, err)
	}
	return nil
}
