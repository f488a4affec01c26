// Package naming is the single place where file paths are spliced.
//
// A working file name is an append-only processing history:
//
//	<stem>[.<tag>]*.<ext>
//
// Stage applications, batch tags, and the ADF page placeholder are all tags
// inserted before the extension. AppendTag and StripTag are exact inverses
// over one application, which is what lets the pipeline reconstruct lineage
// for cleanup decisions.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Placeholder is the printf-style page marker scanimage expands in ADF
// batch mode. It is kept literal in commands and only substituted locally
// when probing for produced pages.
const Placeholder = "%d"

// AppendTag inserts tag before the current extension:
// "dir/a.tiff" -> "dir/a.tag.tiff". A name without an extension gets the
// tag as its final component: "dir/a" -> "dir/a.tag".
func AppendTag(path, tag string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + tag + ext
}

// StripTag removes the innermost appended tag, undoing one AppendTag:
// "dir/a.tag.tiff" -> "dir/a.tiff". A name with a single dotted component
// loses it ("dir/a.tag" -> "dir/a"); a name without any dot is returned
// unchanged.
func StripTag(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	parts := strings.Split(base, ".")
	switch {
	case len(parts) >= 3:
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	case len(parts) == 2:
		parts = parts[:1]
	default:
		return path
	}
	return filepath.Join(dir, strings.Join(parts, "."))
}

// WithExt replaces the current extension (or appends one):
// "a.tiff" -> "a.pdf", "tmp/scan" -> "tmp/scan.pdf".
func WithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// TrimExt drops the final extension if present.
func TrimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// HasExt reports whether path currently ends in ".ext".
func HasExt(path, ext string) bool {
	return filepath.Ext(path) == "."+ext
}

// ApplyStage records one stage application: the stage tag is appended and
// the extension becomes the stage's produced filetype.
// "scan.tiff" + ("tesseract", "pdf") -> "scan.tesseract.pdf".
func ApplyStage(path, tag, filetype string) string {
	return AppendTag(WithExt(path, filetype), tag)
}

// BatchTag returns the tag for one acquisition cycle. Batch indices are
// 1-based and embedded before the page placeholder, so pages from distinct
// batches can never collide.
func BatchTag(iteration int) string {
	return "batch-" + strconv.Itoa(iteration)
}

// HasPlaceholder reports whether prototype contains the ADF page marker.
func HasPlaceholder(prototype string) bool {
	return strings.Contains(prototype, Placeholder)
}

// PageIndexPath substitutes a concrete 1-based page index for the
// placeholder, mirroring scanimage's own expansion.
func PageIndexPath(prototype string, index int) string {
	return strings.Replace(prototype, Placeholder, strconv.Itoa(index), 1)
}

// StripPageIndex removes the page-index tag from a working file name:
// "scan.3.tiff" -> "scan.tiff", and with stage tags already appended,
// "scan.3.unpaper.convert.pdf" -> "scan.unpaper.convert.pdf". The page
// index is always the last all-digit tag: it is appended after any batch
// tag, and stage tags appended later are never all-digit. Scanning from
// the end keeps digit components of the user's own name ("report.2024")
// intact. Names without an index are returned unchanged, so flatbed paths
// pass through.
func StripPageIndex(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	parts := strings.Split(base, ".")
	for i := len(parts) - 2; i >= 1; i-- {
		if isIndex(parts[i]) {
			parts = append(parts[:i], parts[i+1:]...)
			return filepath.Join(dir, strings.Join(parts, "."))
		}
	}
	return path
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DeliverablePath builds the final output name after all stage tags are
// shed. A single deliverable keeps the logical name as-is; multiple
// deliverables get a 1-based index glued onto the name.
func DeliverablePath(outputName string, index, total int, filetype string) string {
	stem := TrimExt(outputName)
	if total > 1 {
		stem += strconv.Itoa(index)
	}
	return stem + "." + filetype
}

// RenameTarget resolves an interactive rename answer against the file being
// renamed, reusing the deliverable's extension so the user only types a name.
func RenameTarget(file, answer string) string {
	return WithExt(answer, strings.TrimPrefix(filepath.Ext(file), "."))
}
