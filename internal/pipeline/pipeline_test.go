package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadxml/internal/cadastre"
	"github.com/woozymasta/cadxml/internal/export"
	"github.com/woozymasta/cadxml/internal/xmldoc"
)

const gmlXML = `<?xml version="1.0" encoding="UTF-8"?>
<Parcel xmlns:gml="http://www.opengis.net/gml">
  <CadastralNumber>77:01:0001001:1</CadastralNumber>
  <Area>1250.5</Area>
  <gml:posList>400500 2500000 400600 2500000 400600 2500100 400500 2500100</gml:posList>
</Parcel>`

func TestProcessMalformed(t *testing.T) {
	rec, err := New().Process([]byte("<not valid xml"))
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, xmldoc.IsParseError(err))
}

func TestProcessParserErrorMarker(t *testing.T) {
	_, err := New().Process([]byte(`<html><parsererror>bad</parsererror></html>`))
	assert.True(t, xmldoc.IsParseError(err))
}

func TestProcessMissingCoordinates(t *testing.T) {
	rec, err := New().Process([]byte(`<CadastralNumber>50:21:0000000:123</CadastralNumber>`))
	require.NoError(t, err)

	assert.Equal(t, "50:21:0000000:123", rec.CadastralNumber)
	assert.Empty(t, rec.Points)
	assert.Equal(t, cadastre.SystemLocal, rec.System)

	dxf := export.DXF(rec)
	for _, v := range []string{"505764.87", "505864.87", "1317818.52", "1317918.52"} {
		assert.Contains(t, dxf, "\n"+v+"\n")
	}
}

func TestProcessMSK77(t *testing.T) {
	rec, err := New().Process([]byte(gmlXML))
	require.NoError(t, err)

	assert.Equal(t, "77:01:0001001:1", rec.CadastralNumber)
	assert.Equal(t, 1250.5, rec.DeclaredArea)
	assert.Equal(t, cadastre.SystemMSK77Zone1, rec.System)
	require.Len(t, rec.Points, 4)
	for _, p := range rec.Points {
		require.True(t, p.Enriched())
	}
	assert.InDelta(t, 60.2474, *rec.Points[0].Lat, 1e-4)
	assert.InDelta(t, 37.6253, *rec.Points[0].Lon, 1e-4)
	assert.Equal(t, 400500.0, rec.Points[0].X)
}

func TestProcessWGS84(t *testing.T) {
	rec, err := New().Process([]byte(`<r><coordinates>37.62,55.75 37.63,55.75 37.63,55.76</coordinates></r>`))
	require.NoError(t, err)

	assert.Equal(t, cadastre.NotFound, rec.CadastralNumber)
	assert.Equal(t, cadastre.SystemWGS84, rec.System)
	assert.Equal(t, 55.75, *rec.Points[0].Lat)
	assert.Equal(t, 37.62, *rec.Points[0].Lon)
}

func TestProcessByteOrderMark(t *testing.T) {
	input := "\uFEFF<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<r><CadastralNumber>50:21:0000000:123</CadastralNumber><pos>37.62 55.75</pos></r>"

	rec, err := New().Process([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "50:21:0000000:123", rec.CadastralNumber)
	assert.Equal(t, cadastre.SystemWGS84, rec.System)
	require.Len(t, rec.Points, 1)
}

type failingParser struct{}

func (failingParser) ParseDocument(io.Reader) (*xmldoc.Document, error) {
	return nil, errors.New("boom")
}

func TestProcessWrapsParserErrors(t *testing.T) {
	p := &Pipeline{Parser: failingParser{}}
	_, err := p.Process([]byte("<r/>"))
	require.Error(t, err)
	assert.True(t, xmldoc.IsParseError(err))
	assert.Contains(t, err.Error(), "boom")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()

	rec, err := New().ProcessFile(writeFile(t, dir, "plan.xml", gmlXML))
	require.NoError(t, err)
	assert.Len(t, rec.Points, 4)

	_, err = New().ProcessFile(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
	assert.False(t, xmldoc.IsParseError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = New().ProcessFile(writeFile(t, dir, "bad.xml", "<a>"))
	require.Error(t, err)
	assert.True(t, xmldoc.IsParseError(err))
	assert.Contains(t, err.Error(), "bad.xml")
}

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for i := 0; i < 12; i++ {
		content := fmt.Sprintf(`<r><CadastralNumber>50:21:0000000:%d</CadastralNumber><X>%d</X><Y>1</Y></r>`, i, i)
		if i%5 == 3 {
			content = "<broken"
		}
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%02d.xml", i), content))
	}

	results := New().ProcessBatch(paths, 4)
	require.Len(t, results, len(paths))
	assert.Equal(t, 2, Failed(results))

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		if i%5 == 3 {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Record)
			continue
		}
		require.NoError(t, r.Err)
		assert.True(t, strings.HasSuffix(r.Record.CadastralNumber, fmt.Sprintf(":%d", i)))
	}
}

func TestProcessBatchEdgeConcurrency(t *testing.T) {
	assert.Empty(t, New().ProcessBatch(nil, 8))

	dir := t.TempDir()
	path := writeFile(t, dir, "one.xml", gmlXML)
	results := New().ProcessBatch([]string{path}, 0)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestSummarize(t *testing.T) {
	rec, err := New().Process([]byte(gmlXML))
	require.NoError(t, err)

	s := Summarize(rec)
	assert.Equal(t, "77:01:0001001:1", s.CadastralNumber)
	assert.True(t, s.ValidNumber)
	assert.Equal(t, cadastre.SystemMSK77Zone1, s.System)
	assert.Equal(t, 4, s.Points)
	assert.Zero(t, s.ObjectParts)
	assert.Equal(t, 1250.5, s.DeclaredArea)
	assert.InDelta(t, 10000, s.Area, 1e-6)
	assert.InDelta(t, 400, s.Perimeter, 1e-6)
	assert.Equal(t, 2499990.0, s.Bounds.MinX)
	assert.Equal(t, 400610.0, s.Bounds.MaxY)
}
