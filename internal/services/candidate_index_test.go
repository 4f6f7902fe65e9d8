package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	failOn string
	inputs []string
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.inputs = append(f.inputs, text)
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("quota exceeded")
	}
	return []float32{float32(len(text)), 1}, nil
}

type fakeStore struct {
	points  []VectorPoint
	hits    []VectorHit
	deleted map[string]string
	limit   int
}

func (f *fakeStore) InitCollection(context.Context) error { return nil }

func (f *fakeStore) Upsert(_ context.Context, points []VectorPoint) error {
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ []float32, limit int) ([]VectorHit, error) {
	f.limit = limit
	return f.hits, nil
}

func (f *fakeStore) DeleteByField(_ context.Context, field, value string) error {
	if f.deleted == nil {
		f.deleted = map[string]string{}
	}
	f.deleted[field] = value
	return nil
}

func TestCandidateIndex_IndexCandidate(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	index := NewCandidateIndex(store, embedder, nil, nil)

	entry := IndexEntry{ResumeID: "r1", BatchID: "b1", Filename: "jane.pdf", Name: "Jane Doe", ATSScore: 42}
	n, err := index.IndexCandidate(context.Background(), entry, "  Jane Doe \n\n Python and AWS  ")
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	require.Len(t, store.points, 1)
	p := store.points[0]
	assert.Equal(t, "r1", p.Payload["resume_id"])
	assert.Equal(t, "Jane Doe", p.Payload["name"])
	assert.Equal(t, 42.0, p.Payload["ats_score"])
	assert.Equal(t, "Jane Doe\nPython and AWS", p.Payload["text"])
}

func TestCandidateIndex_SkipsFailedChunks(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{failOn: "FAIL"}
	index := NewCandidateIndex(store, embedder, splitOnMarker{}, nil)

	n, err := index.IndexCandidate(context.Background(), IndexEntry{ResumeID: "r1"}, "ok one|FAIL|ok two")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.points, 2)
}

func TestCandidateIndex_AllChunksFail(t *testing.T) {
	index := NewCandidateIndex(&fakeStore{}, &fakeEmbedder{failOn: "a"}, nil, nil)

	_, err := index.IndexCandidate(context.Background(), IndexEntry{ResumeID: "r1", Filename: "x.pdf"}, "a")
	assert.Error(t, err)
}

func TestCandidateIndex_EmptyText(t *testing.T) {
	store := &fakeStore{}
	index := NewCandidateIndex(store, &fakeEmbedder{}, nil, nil)

	n, err := index.IndexCandidate(context.Background(), IndexEntry{ResumeID: "r1"}, "   ")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.points)
}

func TestCandidateIndex_SearchCollapsesPerResume(t *testing.T) {
	store := &fakeStore{hits: []VectorHit{
		{Score: 0.9, Payload: map[string]interface{}{"resume_id": "r1", "name": "Jane", "text": "best chunk", "ats_score": 40.0}},
		{Score: 0.8, Payload: map[string]interface{}{"resume_id": "r1", "name": "Jane", "text": "second chunk"}},
		{Score: 0.7, Payload: map[string]interface{}{"resume_id": "r2", "name": "John", "text": "other"}},
		{Score: 0.6, Payload: map[string]interface{}{"resume_id": "r3", "name": "Ann", "text": "third"}},
	}}
	embedder := &fakeEmbedder{}
	index := NewCandidateIndex(store, embedder, nil, nil)

	matches, err := index.Search(context.Background(), "python engineer", 2)
	require.NoError(t, err)

	assert.Equal(t, 6, store.limit)
	require.Len(t, matches, 2)
	assert.Equal(t, "r1", matches[0].ResumeID)
	assert.Equal(t, "best chunk", matches[0].Snippet)
	assert.Equal(t, 40.0, matches[0].ATSScore)
	assert.Equal(t, "r2", matches[1].ResumeID)
	assert.Contains(t, embedder.inputs[0], "python engineer")
}

func TestCandidateIndex_BlankQuery(t *testing.T) {
	embedder := &fakeEmbedder{}
	index := NewCandidateIndex(&fakeStore{}, embedder, nil, nil)

	matches, err := index.Search(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, embedder.inputs)
}

func TestCandidateIndex_Delete(t *testing.T) {
	store := &fakeStore{}
	index := NewCandidateIndex(store, &fakeEmbedder{}, nil, nil)

	require.NoError(t, index.DeleteCandidate(context.Background(), "r9"))
	assert.Equal(t, "r9", store.deleted["resume_id"])
}

type splitOnMarker struct{}

func (splitOnMarker) ChunkText(text string, _ int, _ int) []string {
	return strings.Split(text, "|")
}
