package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendTag(t *testing.T) {
	tests := []struct {
		name string
		path string
		tag  string
		want string
	}{
		{"with extension", "dir/scan.tiff", "batch-1", "dir/scan.batch-1.tiff"},
		{"without extension", "dir/scan", "batch-1", "dir/scan.batch-1"},
		{"stacked tags", "scan.batch-2.tiff", "%d", "scan.batch-2.%d.tiff"},
		{"bare name", "scan.tiff", "unpaper", "scan.unpaper.tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendTag(tt.path, tt.tag))
		})
	}
}

func TestStripTag_InvertsAppendTag(t *testing.T) {
	paths := []string{
		"dir/scan.tiff",
		"dir/scan",
		"scan.batch-1.tiff",
		"a.b.c.pdf",
	}
	tags := []string{"batch-3", "%d", "tesseract"}
	for _, p := range paths {
		for _, tag := range tags {
			assert.Equal(t, p, StripTag(AppendTag(p, tag)),
				"round-trip for %q + %q", p, tag)
		}
	}
}

func TestStripTag(t *testing.T) {
	assert.Equal(t, "dir/scan.tiff", StripTag("dir/scan.batch-1.tiff"))
	assert.Equal(t, "dir/scan", StripTag("dir/scan.tiff"))
	assert.Equal(t, "plain", StripTag("plain"))
}

func TestApplyStage(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		tag, ft  string
		want     string
	}{
		{"replaces extension", "scan.tiff", "tesseract", "pdf", "scan.tesseract.pdf"},
		{"accumulates history", "scan.tesseract.pdf", "gs", "pdf", "scan.tesseract.gs.pdf"},
		{"extensionless input", "tmp/scan", "unpaper", "pnm", "tmp/scan.unpaper.pnm"},
		{"page-indexed input", "scan.batch-1.2.tiff", "convert", "png", "scan.batch-1.2.convert.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyStage(tt.path, tt.tag, tt.ft))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	proto := AppendTag("out/scan.tiff", Placeholder)
	assert.Equal(t, "out/scan.%d.tiff", proto)
	assert.True(t, HasPlaceholder(proto))
	assert.False(t, HasPlaceholder("out/scan.tiff"))

	assert.Equal(t, "out/scan.1.tiff", PageIndexPath(proto, 1))
	assert.Equal(t, "out/scan.12.tiff", PageIndexPath(proto, 12))
}

func TestStripPageIndex(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"page index removed", "scan.batch-1.3.tiff", "scan.batch-1.tiff"},
		{"single page", "scan.1.tiff", "scan.tiff"},
		{"flatbed path unchanged", "scan.tiff", "scan.tiff"},
		{"non-numeric tag unchanged", "scan.batch-1.tiff", "scan.batch-1.tiff"},
		{"index buried under stage tags", "scan.2.unpaper.convert.pdf", "scan.unpaper.convert.pdf"},
		{"digit component in the name survives", "report.2024.1.tiff", "report.2024.tiff"},
		{"digit name with stage tags", "report.2024.3.unpaper.pnm", "report.2024.unpaper.pnm"},
		{"directory preserved", "out/doc.2.tiff", "out/doc.tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPageIndex(tt.path))
		})
	}
}

func TestDeliverablePath(t *testing.T) {
	assert.Equal(t, "invoice.pdf", DeliverablePath("invoice", 1, 1, "pdf"))
	assert.Equal(t, "invoice1.pdf", DeliverablePath("invoice", 1, 5, "pdf"))
	assert.Equal(t, "invoice5.pdf", DeliverablePath("invoice", 5, 5, "pdf"))
	// A logical name carrying an extension is reduced to its stem first.
	assert.Equal(t, "invoice.pdf", DeliverablePath("invoice.tiff", 1, 1, "pdf"))
	assert.Equal(t, "tmp/scan2.png", DeliverablePath("tmp/scan", 2, 3, "png"))
}

func TestRenameTarget(t *testing.T) {
	assert.Equal(t, "taxes-2026.pdf", RenameTarget("/tmp/scanforge-1/scan.pdf", "taxes-2026"))
	assert.Equal(t, "notes/receipt.png", RenameTarget("scan.png", "notes/receipt"))
	// An extension typed by the user is replaced by the deliverable's.
	assert.Equal(t, "doc.pdf", RenameTarget("scan.pdf", "doc.txt"))
}
