package scan

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfold/scanforge/internal/config"
	"github.com/inkfold/scanforge/internal/device"
	"github.com/inkfold/scanforge/internal/logging"
	"github.com/inkfold/scanforge/internal/stage"
)

// fakeScanner simulates scanimage on the filesystem: ADF invocations
// expand the --batch pattern into pages files, flatbed invocations write
// image bytes to the redirected stdout.
type fakeScanner struct {
	pages int
	calls [][]string
	fail  bool
}

func (f *fakeScanner) Run(ctx context.Context, argv []string, stdout io.Writer) stage.Result {
	f.calls = append(f.calls, argv)
	if f.fail {
		return stage.Result{Stderr: "scanimage: sane_start: Device busy", Err: errors.New("exit status 1")}
	}

	var pattern string
	for _, arg := range argv {
		if strings.HasPrefix(arg, "--batch=") {
			pattern = strings.TrimPrefix(arg, "--batch=")
		}
	}
	if pattern == "" {
		if stdout != nil {
			_, _ = io.WriteString(stdout, "P6 image data")
		}
		return stage.Result{}
	}
	for i := 1; i <= f.pages; i++ {
		path := strings.Replace(pattern, "%d", strconv.Itoa(i), 1)
		if err := os.WriteFile(path, []byte("page"), 0o644); err != nil {
			return stage.Result{Err: err}
		}
	}
	return stage.Result{}
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := logging.NewLogger(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func testAcquirer(t *testing.T, source string, fake *fakeScanner) *Acquirer {
	t.Helper()
	sc, err := device.New("brother")
	require.NoError(t, err)
	sc.Config = sc.Config.WithSource(source)
	return &Acquirer{
		Scanner: sc,
		Runner:  fake,
		Log:     testLogger(t),
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("page"), 0o644))
}

func TestAcquire_ADF(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeScanner{pages: 3}
	a := testAcquirer(t, "duplex", fake)
	base := filepath.Join(dir, "doc.tiff")

	files, scanned, err := a.Acquire(context.Background(), base, false)
	require.NoError(t, err)
	assert.True(t, scanned)
	want := []string{
		filepath.Join(dir, "doc.1.tiff"),
		filepath.Join(dir, "doc.2.tiff"),
		filepath.Join(dir, "doc.3.tiff"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("file set mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0], "--batch="+filepath.Join(dir, "doc.%d.tiff"))
}

func TestAcquire_Flatbed(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeScanner{}
	a := testAcquirer(t, "flatbed", fake)
	base := filepath.Join(dir, "doc.tiff")

	files, scanned, err := a.Acquire(context.Background(), base, false)
	require.NoError(t, err)
	assert.True(t, scanned)
	assert.Equal(t, []string{base}, files)

	b, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Equal(t, "P6 image data", string(b))
}

func TestAcquire_ReusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeScanner{pages: 2}
	a := testAcquirer(t, "adf", fake)
	touch(t, filepath.Join(dir, "doc.1.tiff"))
	touch(t, filepath.Join(dir, "doc.2.tiff"))

	files, scanned, err := a.Acquire(context.Background(), filepath.Join(dir, "doc.tiff"), false)
	require.NoError(t, err)
	assert.False(t, scanned)
	assert.Len(t, files, 2)
	assert.Empty(t, fake.calls)
}

func TestAcquire_ForceRescan(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeScanner{pages: 2}
	a := testAcquirer(t, "adf", fake)
	touch(t, filepath.Join(dir, "doc.1.tiff"))

	_, scanned, err := a.Acquire(context.Background(), filepath.Join(dir, "doc.tiff"), true)
	require.NoError(t, err)
	assert.True(t, scanned)
	require.Len(t, fake.calls, 1)
}

func TestAcquire_NoOutput(t *testing.T) {
	dir := t.TempDir()
	a := testAcquirer(t, "adf", &fakeScanner{pages: 0})

	_, _, err := a.Acquire(context.Background(), filepath.Join(dir, "doc.tiff"), false)
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestAcquire_DryRunSynthesizesFileSet(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeScanner{}
	a := testAcquirer(t, "adf", fake)
	a.DryRun = true

	files, scanned, err := a.Acquire(context.Background(), filepath.Join(dir, "doc.tiff"), false)
	require.NoError(t, err)
	assert.True(t, scanned)
	assert.Equal(t, []string{filepath.Join(dir, "doc.1.tiff")}, files)
	assert.Empty(t, fake.calls, "dry run must not spawn the scanner")
	assert.NoFileExists(t, files[0])
}

func TestAcquire_SurfacesScannerFailure(t *testing.T) {
	dir := t.TempDir()
	a := testAcquirer(t, "adf", &fakeScanner{fail: true})

	_, _, err := a.Acquire(context.Background(), filepath.Join(dir, "doc.tiff"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanimage failed")
}

func TestEnumerate_StopsAtFirstGap(t *testing.T) {
	dir := t.TempDir()
	a := testAcquirer(t, "adf", &fakeScanner{})
	touch(t, filepath.Join(dir, "doc.1.tiff"))
	touch(t, filepath.Join(dir, "doc.2.tiff"))
	touch(t, filepath.Join(dir, "doc.4.tiff"))

	files, err := a.Enumerate(filepath.Join(dir, "doc.%d.tiff"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestExists_IgnoresStaleHigherPages(t *testing.T) {
	dir := t.TempDir()
	a := testAcquirer(t, "adf", &fakeScanner{})
	touch(t, filepath.Join(dir, "doc.2.tiff"))

	ok, err := a.Exists(filepath.Join(dir, "doc.%d.tiff"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrototypeArityMismatch(t *testing.T) {
	a := testAcquirer(t, "adf", &fakeScanner{})

	// ADF source without the page marker is a programming fault.
	_, err := a.Exists("doc.tiff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal:")

	a.Scanner.Config = a.Scanner.Config.WithSource("flatbed")
	_, err = a.Enumerate("doc.%d.tiff")
	require.Error(t, err)
}
