package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name   string
	body   string
	method uint16
}

func buildZip(t *testing.T, entries []testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   e.method,
			Modified: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, data []byte) map[string]*zip.File {
	t.Helper()

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}
	return files
}

func rawBytes(t *testing.T, f *zip.File) []byte {
	t.Helper()

	rc, err := f.OpenRaw()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestOpen_InvalidPackage(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPackage))
}

func TestPackage_PreservesOrderAndUnchangedEntries(t *testing.T) {
	src := buildZip(t, []testEntry{
		{name: "[Content_Types].xml", body: "<Types/>", method: zip.Deflate},
		{name: "ppt/slides/slide1.xml", body: "<p:sld/>", method: zip.Deflate},
		{name: "ppt/media/image1.png", body: "\x89PNG binary", method: zip.Store},
	})

	pkg, err := Open(src)
	require.NoError(t, err)
	require.Equal(t, 3, pkg.Len())

	slide := pkg.Entries()[1]
	pkg.Replace(slide, []byte("<p:sld><x/></p:sld>"))
	assert.True(t, slide.Replaced())
	assert.Equal(t, int64(len("<p:sld><x/></p:sld>")), slide.Size())

	out, err := pkg.Bytes()
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	names := make([]string, len(r.File))
	for i, f := range r.File {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"[Content_Types].xml", "ppt/slides/slide1.xml", "ppt/media/image1.png"}, names)

	before := readAll(t, src)
	after := readAll(t, out)
	for _, name := range []string{"[Content_Types].xml", "ppt/media/image1.png"} {
		assert.Equal(t, rawBytes(t, before[name]), rawBytes(t, after[name]), name)
		assert.Equal(t, before[name].CRC32, after[name].CRC32, name)
		assert.Equal(t, before[name].Method, after[name].Method, name)
	}

	content, err := pkg.Content(slide)
	require.NoError(t, err)
	assert.Equal(t, "<p:sld><x/></p:sld>", string(content))
	assert.Equal(t, uint16(zip.Deflate), after["ppt/slides/slide1.xml"].Method)
}

func TestPackage_ContentLimit(t *testing.T) {
	src := buildZip(t, []testEntry{
		{name: "word/document.xml", body: "<w:document>0123456789</w:document>", method: zip.Deflate},
	})

	pkg, err := Open(src)
	require.NoError(t, err)
	pkg.SetMaxEntrySize(8)

	_, err = pkg.Content(pkg.Entries()[0])
	assert.True(t, errors.Is(err, ErrEntryTooLarge))
}

func TestPackage_RoundTripWithoutChanges(t *testing.T) {
	src := buildZip(t, []testEntry{
		{name: "word/document.xml", body: "<w:document/>", method: zip.Deflate},
		{name: "docProps/core.xml", body: "<cp:coreProperties/>", method: zip.Store},
	})

	pkg, err := Open(src)
	require.NoError(t, err)

	out, err := pkg.Bytes()
	require.NoError(t, err)

	before := readAll(t, src)
	after := readAll(t, out)
	require.Len(t, after, len(before))
	for name, f := range before {
		assert.Equal(t, rawBytes(t, f), rawBytes(t, after[name]), name)
	}
}
