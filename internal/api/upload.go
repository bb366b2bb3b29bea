package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/worklens/console-go/internal/domain/session"
)

// ProgressFunc receives upload progress. total is the file size in
// bytes; sent grows monotonically up to total.
type ProgressFunc func(sent, total int64)

// UploadCategory streams a workforce spreadsheet to the category's
// upload endpoint as multipart form data.
func (c *Client) UploadCategory(ctx context.Context, category analysis.Category, filename string, file io.Reader, size int64, progress ProgressFunc) error {
	return c.uploadMultipart(ctx, "/"+string(category)+"/upload", filename, file, size, progress)
}

// UploadUsers streams a user workbook to the bulk-import endpoint.
func (c *Client) UploadUsers(ctx context.Context, filename string, file io.Reader, size int64, progress ProgressFunc) error {
	return c.uploadMultipart(ctx, "/users/upload-excel", filename, file, size, progress)
}

// uploadMultipart streams one file to path as the "file" form field.
func (c *Client) uploadMultipart(ctx context.Context, path, filename string, file io.Reader, size int64, progress ProgressFunc) error {
	token := c.session.Token()
	if token == "" {
		return session.ErrNotSignedIn
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := file
		if progress != nil {
			src = &progressReader{r: file, total: size, report: progress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(path, nil, true), pr)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseServerError(resp.StatusCode, raw)
	}
	// The upload response body (row counts etc.) is informational only;
	// callers re-fetch the affected resource afterwards.
	var discard map[string]interface{}
	_ = json.Unmarshal(raw, &discard)
	return nil
}

type progressReader struct {
	r      io.Reader
	total  int64
	sent   atomic.Int64
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.report(p.sent.Add(int64(n)), p.total)
	}
	return n, err
}
