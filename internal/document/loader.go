package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// ObjectFetcher downloads a single object from remote storage.
type ObjectFetcher interface {
	DownloadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader reads FAQ documents from local disk or S3. Plain text and markdown
// files are returned as-is; PDF files are converted to plain text.
type Loader struct {
	s3 ObjectFetcher
}

// NewLoader creates a Loader. fetcher may be nil when only local paths are used.
func NewLoader(fetcher ObjectFetcher) *Loader {
	return &Loader{s3: fetcher}
}

// IsRemote reports whether path refers to an object in S3 rather than a local file.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// ParseS3Path splits an s3://bucket/key URL into bucket and key.
func ParseS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("invalid s3 path %q, expected s3://bucket/key", path))
	}
	return bucket, key, nil
}

// Load reads the document at path and returns its plain-text contents along
// with the source name recorded in chunk metadata.
func (l *Loader) Load(ctx context.Context, path string) (text, source string, err error) {
	source = filepath.Base(path)

	if IsRemote(path) {
		text, err = l.loadRemote(ctx, path)
		return text, source, err
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDF(path)
		return text, source, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", source, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound,
				fmt.Sprintf("document not found at %s", path), domain.ErrDocumentNotFound)
		}
		return "", source, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError,
			fmt.Sprintf("failed to read document %s", path), err)
	}
	return string(data), source, nil
}

func (l *Loader) loadRemote(ctx context.Context, path string) (string, error) {
	if l.s3 == nil {
		return "", domain.NewDomainError(domain.ErrCodeValidation,
			"document path is remote but no storage client is configured")
	}
	bucket, key, err := ParseS3Path(path)
	if err != nil {
		return "", err
	}
	data, err := l.s3.DownloadObject(ctx, bucket, key)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError,
			fmt.Sprintf("failed to download document s3://%s/%s", bucket, key), err)
	}
	if strings.EqualFold(filepath.Ext(key), ".pdf") {
		return extractPDFBytes(data)
	}
	return string(data), nil
}

func extractPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.NewDomainErrorWithCause(domain.ErrCodeNotFound,
				fmt.Sprintf("document not found at %s", path), domain.ErrDocumentNotFound)
		}
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError,
			fmt.Sprintf("failed to open pdf %s", path), err)
	}
	defer f.Close()

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError,
			fmt.Sprintf("failed to extract text from pdf %s", path), err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError,
			fmt.Sprintf("failed to extract text from pdf %s", path), err)
	}
	return string(b), nil
}

// extractPDFBytes writes data to a temporary file before parsing, since the
// pdf reader needs random access to the file.
func extractPDFBytes(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "faqrag-*.pdf")
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to create temp pdf file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to write temp pdf file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to write temp pdf file", err)
	}
	return extractPDF(tmp.Name())
}
