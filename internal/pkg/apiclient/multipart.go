package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
)

type multipartField struct {
	name  string
	value string
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
	data        io.Reader
}

// Multipart collects the parts of a multipart/form-data body in order.
type Multipart struct {
	fields []multipartField
	files  []multipartFile
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a text part.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, multipartField{name: name, value: value})
	return m
}

// FieldIfSet adds a text part only when value is not blank.
func (m *Multipart) FieldIfSet(name, value string) *Multipart {
	if strings.TrimSpace(value) == "" {
		return m
	}
	return m.Field(name, value)
}

// File adds a file part. A nil data reader is ignored.
func (m *Multipart) File(field, filename, contentType string, data io.Reader) *Multipart {
	if data == nil {
		return m
	}
	m.files = append(m.files, multipartFile{field: field, filename: filename, contentType: contentType, data: data})
	return m
}

func (m *Multipart) Has(name string) bool {
	for _, f := range m.fields {
		if f.name == name {
			return true
		}
	}
	for _, f := range m.files {
		if f.field == name {
			return true
		}
	}
	return false
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", f.name)
		}
	}
	for _, f := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		ct := f.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %s", f.field)
		}
		if _, err := io.Copy(part, f.data); err != nil {
			return nil, "", errors.Wrapf(err, "copy part %s", f.field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return buf, w.FormDataContentType(), nil
}

// SendMultipart sends m as multipart/form-data and decodes the JSON answer into out.
func (c *Client) SendMultipart(ctx context.Context, method, path string, m *Multipart, out any) error {
	if m == nil {
		m = NewMultipart()
	}
	body, contentType, err := m.encode()
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, method, path, body, contentType, acceptJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(c.logger, resp, method, path, out)
}

// StreamResponse is a binary body the caller must close.
type StreamResponse struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Stream fetches path and hands back the raw body, for images.
func (c *Client) Stream(ctx context.Context, path string) (*StreamResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "", "*/*")
	if err != nil {
		return nil, err
	}
	return &StreamResponse{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
