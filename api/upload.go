package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// File is one multipart member.
type File struct {
	Name   string
	Reader io.Reader
}

type UploadedFile struct {
	URL              string `json:"url"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"`
	ContentType      string `json:"content_type,omitempty"`
}

type UploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BatchUploadResult struct {
	Success      []UploadedFile  `json:"success"`
	Errors       []UploadFailure `json:"errors"`
	Total        int             `json:"total"`
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
}

func (c *Client) UploadImage(ctx context.Context, f File) (*UploadedFile, error) {
	var out UploadedFile
	if err := c.upload(ctx, "/upload/images", "file", []File{f}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImages sends every file under the repeated member "files".
func (c *Client) UploadImages(ctx context.Context, files []File) (*BatchUploadResult, error) {
	var out BatchUploadResult
	if err := c.upload(ctx, "/upload/images/batch", "files", files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadVideo(ctx context.Context, f File) (*UploadedFile, error) {
	var out UploadedFile
	if err := c.upload(ctx, "/upload/videos", "file", []File{f}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFile(ctx context.Context, filePath string) error {
	query := url.Values{}
	query.Set("file_path", filePath)
	return c.send(ctx, http.MethodDelete, "/upload/files", query, nil, nil)
}

func (c *Client) upload(ctx context.Context, path, field string, files []File, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := writer.CreateFormFile(field, f.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return c.call(ctx, &request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	}, out)
}
