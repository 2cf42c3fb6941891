// Package ooxml reads and writes Office Open XML packages (the zip container
// behind .pptx and .docx files).
//
// Entries keep their archive order. An entry that is not replaced is copied
// into the output with its original compressed bytes, so it is byte-for-byte
// identical to the input.
package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidPackage is returned when the input cannot be read as a zip archive.
var ErrInvalidPackage = errors.New("invalid package")

// ErrEntryTooLarge is returned when an entry decompresses past the read limit.
var ErrEntryTooLarge = errors.New("package entry too large")

// DefaultMaxEntrySize caps how much a single entry may decompress to.
const DefaultMaxEntrySize = 64 << 20

// Entry is one named item of a Package.
type Entry struct {
	Name string

	file     *zip.File
	data     []byte
	replaced bool
}

// Replaced reports whether the entry's content has been replaced.
func (e *Entry) Replaced() bool {
	return e.replaced
}

// Size returns the uncompressed size of the current content.
func (e *Entry) Size() int64 {
	if e.replaced {
		return int64(len(e.data))
	}
	return int64(e.file.UncompressedSize64)
}

// Package is an in-memory zip archive.
type Package struct {
	entries      []*Entry
	comment      string
	maxEntrySize int64
}

// Open reads a package from its raw bytes.
func Open(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	p := &Package{
		entries:      make([]*Entry, 0, len(r.File)),
		comment:      r.Comment,
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, f := range r.File {
		p.entries = append(p.entries, &Entry{Name: f.Name, file: f})
	}
	return p, nil
}

// SetMaxEntrySize changes the decompression limit used by Content.
func (p *Package) SetMaxEntrySize(n int64) {
	if n > 0 {
		p.maxEntrySize = n
	}
}

// Entries returns the entries in archive order.
func (p *Package) Entries() []*Entry {
	return p.entries
}

// Len returns the number of entries.
func (p *Package) Len() int {
	return len(p.entries)
}

// Content returns the current, uncompressed content of e.
func (p *Package) Content(e *Entry) ([]byte, error) {
	if e.replaced {
		return e.data, nil
	}

	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", e.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, p.maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.Name, err)
	}
	if int64(len(data)) > p.maxEntrySize {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, e.Name)
	}
	return data, nil
}

// Replace sets new content for e. The entry keeps its name, position,
// compression method and timestamp.
func (p *Package) Replace(e *Entry, data []byte) {
	e.data = data
	e.replaced = true
}

// Bytes writes the package to a new zip archive.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the package as a zip archive to w.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, e := range p.entries {
		if !e.replaced {
			if err := zw.Copy(e.file); err != nil {
				return fmt.Errorf("copy %s: %w", e.Name, err)
			}
			continue
		}

		hdr := &zip.FileHeader{
			Name:          e.file.Name,
			Comment:       e.file.Comment,
			Method:        e.file.Method,
			Modified:      e.file.Modified,
			ExternalAttrs: e.file.ExternalAttrs,
		}
		if hdr.Method != zip.Store {
			hdr.Method = zip.Deflate
		}

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}

	if p.comment != "" {
		if err := zw.SetComment(p.comment); err != nil {
			return fmt.Errorf("set comment: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
