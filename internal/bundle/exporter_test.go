package bundle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/lifecycle"
	"github.com/vkatariya/readstack/internal/selection"
	"github.com/vkatariya/readstack/internal/store"
)

type fakeConverter struct {
	err    error
	called bool
	bundle Bundle
	out    string
}

func (f *fakeConverter) Convert(_ context.Context, b Bundle, outPath string) error {
	f.called = true
	f.bundle = b
	f.out = outPath
	return f.err
}

type fakeSender struct {
	err      error
	called   bool
	artifact string
	subject  string
}

func (f *fakeSender) Send(_ context.Context, artifact, subject string) error {
	f.called = true
	f.artifact = artifact
	f.subject = subject
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedStore(t *testing.T, ids ...string) (*store.Mem, []*article.Record) {
	t.Helper()
	st := store.NewMem()
	var recs []*article.Record
	for _, id := range ids {
		rec, err := article.Load(id, "---\ntitle: T "+id+"\ncreated: 2026-01-01\nsent-to-kindle: no\n---\nsome words here\n")
		require.NoError(t, err)
		st.Put(store.Pending, rec)
		recs = append(recs, rec)
	}
	return st, recs
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
}

func assertNoneSent(t *testing.T, st *store.Mem, ids ...string) {
	t.Helper()
	for _, id := range ids {
		rec, err := st.Get(store.Pending, id)
		require.NoError(t, err)
		assert.False(t, rec.Meta.Bool(article.KeySentToKindle), "record %s marked sent", id)
	}
}

func TestExportSuccess(t *testing.T) {
	st, recs := seedStore(t, "a.md", "b.md")
	conv := &fakeConverter{}
	send := &fakeSender{}
	exp := &Exporter{Store: st, Converter: conv, Sender: send, Logger: testLogger(), Now: fixedNow}

	res, err := exp.Export(context.Background(), recs, "/out")
	require.NoError(t, err)

	assert.Equal(t, "/out/articles-2026-08-25.epub", res.Artifact)
	assert.Equal(t, res.Artifact, conv.out)
	assert.Equal(t, res.Artifact, send.artifact)
	assert.Equal(t, "Articles Bundle - 2026-08-25", send.subject)
	assert.Equal(t, []string{"a.md", "b.md"}, res.Marked)
	assert.Empty(t, res.Unmarked)

	for _, id := range []string{"a.md", "b.md"} {
		rec, err := st.Get(store.Pending, id)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.StateSent, lifecycle.StateOf(rec))
	}
}

func TestExportConversionFailureMarksNothing(t *testing.T) {
	st, recs := seedStore(t, "a.md", "b.md")
	conv := &fakeConverter{err: errors.New("pandoc exploded")}
	send := &fakeSender{}
	exp := &Exporter{Store: st, Converter: conv, Sender: send, Logger: testLogger(), Now: fixedNow}

	_, err := exp.Export(context.Background(), recs, "/out")
	assert.ErrorIs(t, err, ErrConversionFailed)
	assert.False(t, send.called, "sender invoked after failed conversion")
	assertNoneSent(t, st, "a.md", "b.md")
}

func TestExportDeliveryFailureMarksNothing(t *testing.T) {
	st, recs := seedStore(t, "a.md", "b.md")
	conv := &fakeConverter{}
	send := &fakeSender{err: errors.New("relay refused")}
	exp := &Exporter{Store: st, Converter: conv, Sender: send, Logger: testLogger(), Now: fixedNow}

	_, err := exp.Export(context.Background(), recs, "/out")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.True(t, conv.called)
	assertNoneSent(t, st, "a.md", "b.md")
}

func TestExportEmptySelection(t *testing.T) {
	st, _ := seedStore(t)
	exp := &Exporter{Store: st, Converter: &fakeConverter{}, Sender: &fakeSender{}, Logger: testLogger(), Now: fixedNow}

	_, err := exp.Export(context.Background(), nil, "/out")
	assert.ErrorIs(t, err, selection.ErrEmptySelection)
}

func TestExportPartialMarkFailureIsReported(t *testing.T) {
	st, recs := seedStore(t, "a.md", "b.md")
	// Simulate a record vanishing between selection and mark-sent.
	st.Delete(store.Pending, "b.md")

	exp := &Exporter{Store: st, Converter: &fakeConverter{}, Sender: &fakeSender{}, Logger: testLogger(), Now: fixedNow}
	res, err := exp.Export(context.Background(), recs, "/out")
	require.NoError(t, err, "partial mark failure is reported, not fatal")

	assert.Equal(t, []string{"a.md"}, res.Marked)
	require.Len(t, res.Unmarked, 1)
	assert.Equal(t, "b.md", res.Unmarked[0].ID)
	assert.ErrorIs(t, res.Unmarked[0].Err, store.ErrNotFound)
}
