// Package client submits a collected batch to the payment-order processing
// backend and persists the returned result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/filelock"
	"github.com/vmoreno/opibatch/internal/models"
)

const (
	// submitPath is the backend endpoint for payment-order processing.
	submitPath = "/procesar-ordenes-pago"

	// spreadsheetField and documentField are the multipart form keys the
	// backend expects; documentField repeats once per file.
	spreadsheetField = "excel"
	documentField    = "pdfs"

	// resultNamePrefix is used when the server supplies no filename.
	resultNamePrefix = "NOTIFICACIONESCOACTIVA_OPI_"
)

var (
	// ErrConnection indicates the backend could not be reached at all.
	ErrConnection = errors.New("client: connection to processing service failed")
	// ErrServer indicates the backend rejected the submission.
	ErrServer = errors.New("client: processing service rejected submission")
	// ErrSpreadsheetType indicates the spreadsheet slot holds an unsupported file type.
	ErrSpreadsheetType = errors.New("client: spreadsheet must be .xlsx or .xls")
	// ErrEmptyBatch indicates a submission was attempted with no documents.
	ErrEmptyBatch = errors.New("client: document batch is empty")
)

// errorBody is the structured error payload the backend returns on failure.
type errorBody struct {
	Detail string `json:"detail"`
}

// Result is the binary payload returned by a successful submission.
type Result struct {
	// Filename is the name to offer the download under.
	Filename string
	// Data is the raw result bytes.
	Data []byte
}

// Submitter performs multipart submissions against the backend.
type Submitter struct {
	cfg        config.ServiceConfig
	httpClient *http.Client

	// now is swappable in tests for deterministic result names.
	now func() time.Time
}

// NewSubmitter creates a Submitter for the given backend.
// The HTTP client timeout is set from the config.
func NewSubmitter(cfg config.ServiceConfig) *Submitter {
	return &Submitter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
	}
}

// CheckHealth performs a health check against the backend root.
// Returns true if the server responds with HTTP 200 OK.
func (s *Submitter) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Submit posts the spreadsheet and document batch to the backend and returns
// the generated result. The caller's batch state is never touched: a failed
// submission changes nothing locally.
//
// Failures are reported per their source: unreachable backend wraps
// ErrConnection; a non-success HTTP status wraps ErrServer with the detail
// field of a structured error body when one can be parsed, or the bare
// status code when it cannot.
func (s *Submitter) Submit(ctx context.Context, spreadsheet models.FileHandle, documents []models.FileHandle) (*Result, error) {
	if err := validateSpreadsheet(spreadsheet); err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, ErrEmptyBatch
	}

	body, contentType, err := buildForm(spreadsheet, documents)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+submitPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading result: %v", ErrConnection, err)
	}

	filename := resultFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = DefaultResultName(s.now())
	}

	return &Result{Filename: filename, Data: data}, nil
}

// SaveResult writes the result into dir under its filename, atomically and
// under a file lock so concurrent invocations cannot interleave.
// Returns the full path written.
func (s *Submitter) SaveResult(result *Result, dir string) (string, error) {
	path := filepath.Join(dir, result.Filename)
	if err := filelock.LockAndWrite(path, result.Data); err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	return path, nil
}

// DefaultResultName builds the date-stamped fallback result filename.
func DefaultResultName(t time.Time) string {
	return resultNamePrefix + t.Format("2006-01-02") + ".xlsx"
}

func validateSpreadsheet(spreadsheet models.FileHandle) error {
	switch strings.ToLower(filepath.Ext(spreadsheet.Name)) {
	case ".xlsx", ".xls":
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrSpreadsheetType, spreadsheet.Name)
	}
}

// buildForm assembles the multipart body: one spreadsheet field plus the
// document field repeated per file.
func buildForm(spreadsheet models.FileHandle, documents []models.FileHandle) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := appendFile(writer, spreadsheetField, spreadsheet); err != nil {
		return nil, "", err
	}
	for _, doc := range documents {
		if err := appendFile(writer, documentField, doc); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func appendFile(writer *multipart.Writer, field string, file models.FileHandle) error {
	part, err := writer.CreateFormFile(field, file.Name)
	if err != nil {
		return fmt.Errorf("failed to create form field %s: %w", field, err)
	}

	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer reader.Close()

	if _, err := io.Copy(part, reader); err != nil {
		return fmt.Errorf("failed to copy %s into form: %w", file.Name, err)
	}
	return nil
}

// serverError maps a non-success response to an ErrServer-wrapped error.
// A parseable structured body contributes its detail field; anything else
// falls back to the bare status code.
func serverError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		var body errorBody
		if jsonErr := json.Unmarshal(data, &body); jsonErr == nil && body.Detail != "" {
			return fmt.Errorf("%w: %s", ErrServer, body.Detail)
		}
	}
	return fmt.Errorf("%w: server returned status %d", ErrServer, resp.StatusCode)
}

// resultFilename extracts the filename parameter from a Content-Disposition
// header, or returns "" when absent or unparsable.
func resultFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if name == "" {
		return ""
	}
	// Path components are stripped; only a base name is ever used.
	return filepath.Base(name)
}
