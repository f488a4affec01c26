package scan

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptPrompter replays canned answers; running out of script counts as
// an interrupted prompt.
type scriptPrompter struct {
	answers []string
}

func (p *scriptPrompter) Prompt(string) (string, error) {
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptPrompter) Close() error { return nil }

func testSession(t *testing.T, fake *fakeScanner, answers ...string) *Session {
	t.Helper()
	return &Session{
		Acq:      testAcquirer(t, "duplex", fake),
		Prompter: &scriptPrompter{answers: answers},
	}
}

func TestSession_SingleBatchFinish(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 2}, "finish")

	files, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	want := []string{
		filepath.Join(dir, "doc.batch-1.1.tiff"),
		filepath.Join(dir, "doc.batch-1.2.tiff"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("file set mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Scanned())
}

func TestSession_TwoBatchesAccumulate(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "continue", "finish")

	files, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	want := []string{
		filepath.Join(dir, "doc.batch-1.1.tiff"),
		filepath.Join(dir, "doc.batch-2.1.tiff"),
	}
	assert.Equal(t, want, files)
}

func TestSession_PrefixMatching(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "c", "fin")

	files, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestSession_Abort(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "a")

	_, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	assert.ErrorIs(t, err, ErrAborted)
}

func TestSession_InvalidChoiceStaysInMenu(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "bogus", "", "finish")

	files, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSession_PromptErrorAborts(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}) // Empty script, immediate EOF.

	_, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	assert.ErrorIs(t, err, ErrAborted)
}

func TestSession_EditSource(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "source", "flatbed", "finish")

	files, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "flatbed", s.Acq.Scanner.Config.Source)
}

func TestSession_EditSourceInvalidKeepsValue(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "source", "teleporter", "finish")

	_, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	assert.Equal(t, "duplex", s.Acq.Scanner.Config.Source)
}

func TestSession_EditPapersize(t *testing.T) {
	dir := t.TempDir()
	s := testSession(t, &fakeScanner{pages: 1}, "papersize", "a5", "finish")

	_, err := s.Run(context.Background(), filepath.Join(dir, "doc.tiff"))
	require.NoError(t, err)
	assert.Equal(t, "a5", s.Acq.Scanner.Config.Papersize)
}

func TestMatchChoice(t *testing.T) {
	assert.Equal(t, "continue", matchChoice("c"))
	assert.Equal(t, "finish", matchChoice("finish"))
	assert.Equal(t, "papersize", matchChoice("p"))
	assert.Equal(t, "", matchChoice(""))
	assert.Equal(t, "", matchChoice("x"))
}
