package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// formPart is one field of a multipart body. A nil file means a plain value.
type formPart struct {
	name  string
	value string
	file  *Upload
}

func multipartRequest(method, path string, bearer bool, parts []formPart) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return request{}, fmt.Errorf("write field %s: %w", p.name, err)
			}
			continue
		}
		fw, err := w.CreateFormFile(p.name, p.file.Filename)
		if err != nil {
			return request{}, fmt.Errorf("create file part %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return request{}, fmt.Errorf("write file part %s: %w", p.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("close multipart body: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		bearer:      bearer,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, nil
}
