package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
)

const importPath = "/api/import"

// ImportOptions tweak a file import.
type ImportOptions struct {
	// SimulateError asks the backend to fail after storing the file, for exercising the failure path.
	SimulateError bool
}

// ImportFile uploads r as the multipart field "file" and returns the backend's confirmation message.
func (c *CatalogClient) ImportFile(ctx context.Context, filename string, r io.Reader, opts ImportOptions) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	endpoint := c.baseURL + importPath
	if opts.SimulateError {
		endpoint += "?" + url.Values{"simulateError": {"true"}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.CloseWithError(err)
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &res); err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	return res.Message, nil
}

// ImportHistory returns every import run, newest first.
func (c *CatalogClient) ImportHistory(ctx context.Context) ([]models.ImportHistoryEntry, error) {
	entries := []models.ImportHistoryEntry{}
	if err := c.doRequest(ctx, http.MethodGet, importPath+"/history", nil, &entries); err != nil {
		return nil, err
	}
	SortHistory(entries)
	return entries, nil
}

// SortHistory orders entries by import date, newest first. Entries with equal dates keep their order.
func SortHistory(entries []models.ImportHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date().After(entries[j].Date())
	})
}

// DownloadImportFile streams the stored upload named objectName into w.
//
// It returns the number of bytes written and the filename suggested by the backend.
func (c *CatalogClient) DownloadImportFile(ctx context.Context, objectName string, w io.Writer) (int64, string, error) {
	if objectName == "" {
		return 0, "", fmt.Errorf("%w: object name is required", shared.ErrMissingArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+importPath+"/file/"+url.PathEscape(objectName), nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, "", decodeError(resp.StatusCode, body)
	}

	filename := objectName
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, filename, fmt.Errorf("failed to write download: %w", err)
	}
	return n, filename, nil
}
