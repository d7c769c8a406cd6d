package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

func logRecord(question string) domain.LoggedQueryOutput {
	return domain.LoggedQueryOutput{
		QueryResponse: domain.QueryResponse{
			UserQuestion:  question,
			SystemAnswer:  "an answer",
			ChunksRelated: retrievedChunks("chunk"),
		},
	}
}

func TestQueryLog_AppendCreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "query-log.json")
	ql := NewQueryLog(path)

	before := time.Now().UTC().Truncate(time.Second)
	ql.Append(logRecord("q1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []domain.LoggedQueryOutput
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)

	assert.Equal(t, "q1", records[0].UserQuestion)
	assert.NotEmpty(t, records[0].ID)

	ts, err := time.Parse(time.RFC3339, records[0].Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
}

func TestQueryLog_AppendPreservesPriorEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query-log.json")
	ql := NewQueryLog(path)

	questions := []string{"q1", "q2", "q3", "q4", "q5"}
	for _, q := range questions {
		ql.Append(logRecord(q))
	}

	records, err := ql.Read()
	require.NoError(t, err)
	require.Len(t, records, len(questions))
	for i, q := range questions {
		assert.Equal(t, q, records[i].UserQuestion)
	}
}

func TestQueryLog_AppendWithoutEvaluation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query-log.json")
	ql := NewQueryLog(path)

	ql.Append(logRecord("q1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"evaluation"`)
}

func TestQueryLog_AppendWithEvaluation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query-log.json")
	ql := NewQueryLog(path)

	record := logRecord("q1")
	record.Evaluation = &domain.EvaluationResult{
		Score:  8.5,
		Reason: "solid",
		Breakdown: domain.EvaluationBreakdown{
			ChunkRelevance: 9,
			AnswerAccuracy: 8,
			Completeness:   8.5,
		},
	}
	ql.Append(record)

	records, err := ql.Read()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Evaluation)
	assert.Equal(t, 8.5, records[0].Evaluation.Score)
}

func TestQueryLog_AppendSwallowsIOErrors(t *testing.T) {
	// Point at a path whose parent is a file, so every write fails.
	base := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0644))
	ql := NewQueryLog(filepath.Join(base, "query-log.json"))

	assert.NotPanics(t, func() {
		ql.Append(logRecord("q1"))
	})
}

func TestQueryLog_ReadMissingFileIsEmpty(t *testing.T) {
	ql := NewQueryLog(filepath.Join(t.TempDir(), "absent.json"))

	records, err := ql.Read()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestQueryLog_CorruptFileSurfacesLogIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query-log.json")
	require.NoError(t, os.WriteFile(path, []byte("{not an array"), 0644))

	ql := NewQueryLog(path)
	_, err := ql.Read()
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeLogIO, domainErr.Code)
}

func TestQueryLog_FileIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query-log.json")
	ql := NewQueryLog(path)

	ql.Append(logRecord("q1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}
