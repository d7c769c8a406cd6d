package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// QueryLog appends query records to a single JSON array on disk. The whole
// file is rewritten per append, which is not safe under concurrent writers.
type QueryLog struct {
	path string
	now  func() time.Time
}

func NewQueryLog(path string) *QueryLog {
	return &QueryLog{
		path: path,
		now:  time.Now,
	}
}

// Append stamps the record with an ID and timestamp and persists it.
// Logging failures never fail the query that produced the record: any I/O
// or parse error is logged as a warning and swallowed.
func (l *QueryLog) Append(record domain.LoggedQueryOutput) {
	record.ID = uuid.NewString()
	record.Timestamp = l.now().UTC().Format(time.RFC3339)

	if err := l.append(record); err != nil {
		log.Printf("warning: failed to append query log: %v", err)
	}
}

func (l *QueryLog) append(record domain.LoggedQueryOutput) error {
	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeLogIO, "failed to create log directory", err)
		}
	}

	records, err := l.read()
	if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeLogIO, "failed to encode query log", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeLogIO, "failed to write query log", err)
	}
	return nil
}

// Read returns all logged records, oldest first. A missing file is an
// empty history.
func (l *QueryLog) Read() ([]domain.LoggedQueryOutput, error) {
	return l.read()
}

func (l *QueryLog) read() ([]domain.LoggedQueryOutput, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeLogIO, "failed to read query log", err)
	}

	var records []domain.LoggedQueryOutput
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeLogIO,
			fmt.Sprintf("query log at %s is not a JSON array", l.path), err)
	}
	return records, nil
}
