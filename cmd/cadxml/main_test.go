package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadxml/internal/export"
	"github.com/woozymasta/cadxml/internal/pipeline"
	"github.com/woozymasta/cadxml/internal/preview"
	"github.com/woozymasta/cadxml/internal/xmldoc"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOutputWriterSameNumber(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	paths := []string{
		writeInput(t, in, "a.xml", `<r><pos>1 2</pos></r>`),
		writeInput(t, in, "b.xml", `<r><pos>3 4</pos></r>`),
	}

	w := newOutputWriter(Options{Output: out}, preview.Options{})
	for _, res := range pipeline.New().ProcessBatch(paths, 2) {
		require.NoError(t, res.Err)
		require.NoError(t, w.write(res, []export.Format{export.FormatCSV}))
	}

	assert.Contains(t, readOutput(t, filepath.Join(out, "coordinates_unknown.csv")), "1.000,2.000")
	assert.Contains(t, readOutput(t, filepath.Join(out, "coordinates_unknown_b.csv")), "3.000,4.000")
}

func TestOutputWriterSameStem(t *testing.T) {
	root, out := t.TempDir(), t.TempDir()
	var paths []string
	for _, dir := range []string{"x", "y", "z"} {
		paths = append(paths, writeInput(t, filepath.Join(root, dir), "a.xml", `<r><CadastralNumber>50:21:0000000:1</CadastralNumber></r>`))
	}

	w := newOutputWriter(Options{Output: out, Preview: true}, preview.Options{Size: preview.MinSize, Format: preview.FormatPNG})
	for _, res := range pipeline.New().ProcessBatch(paths, 1) {
		require.NoError(t, res.Err)
		require.NoError(t, w.write(res, []export.Format{export.FormatJSON}))
	}

	for _, name := range []string{
		"coordinates_50_21_0000000_1.json",
		"coordinates_50_21_0000000_1_a.json",
		"coordinates_50_21_0000000_1_a_2.json",
		"a.png",
		"a_a.png",
		"a_a_2.png",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestOutputWriterExistingOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeInput(t, in, "plan.xml", `<r><pos>1 2</pos></r>`)
	existing := filepath.Join(out, "coordinates_unknown.txt")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o600))

	res := pipeline.New().ProcessBatch([]string{path}, 1)[0]
	require.NoError(t, res.Err)

	err := newOutputWriter(Options{Output: out}, preview.Options{}).write(res, []export.Format{export.FormatTXT})
	require.ErrorIs(t, err, errOutputExists)
	assert.Equal(t, "old", readOutput(t, existing))

	err = newOutputWriter(Options{Output: out, Force: true}, preview.Options{}).write(res, []export.Format{export.FormatTXT})
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, existing), "Координаты:")
}

func TestOutputWriterSameInputKeepsName(t *testing.T) {
	w := newOutputWriter(Options{Output: "out"}, preview.Options{})
	first := w.claim("coordinates_unknown.csv", "a.xml")
	assert.Equal(t, first, w.claim("coordinates_unknown.csv", "a.xml"))
	assert.Equal(t, filepath.Join("out", "coordinates_unknown_b.csv"), w.claim("coordinates_unknown.csv", "b.xml"))
}

func TestToStdout(t *testing.T) {
	const input = `<r><CadastralNumber>50:21:0000000:123</CadastralNumber><pos>37.62 55.75</pos></r>`
	p := pipeline.New()

	var out bytes.Buffer
	err := toStdout(p, Options{}, []export.Format{export.FormatJSON}, strings.NewReader(input), &out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "50:21:0000000:123", got["cadastralNumber"])
}

func TestToStdoutFromFile(t *testing.T) {
	path := writeInput(t, t.TempDir(), "plan.xml", `<r><pos>1 2</pos></r>`)

	var out bytes.Buffer
	err := toStdout(pipeline.New(), Options{Input: []string{path}}, []export.Format{export.FormatCSV}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1.000,2.000")
}

func TestToStdoutRejects(t *testing.T) {
	p := pipeline.New()

	tests := []struct {
		name    string
		opts    Options
		formats []export.Format
		input   string
	}{
		{"Two Formats", Options{}, []export.Format{export.FormatJSON, export.FormatCSV}, "<r/>"},
		{"No Format", Options{}, nil, "<r/>"},
		{"Two Inputs", Options{Input: []string{"a.xml", "b.xml"}}, []export.Format{export.FormatJSON}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, toStdout(p, tt.opts, tt.formats, strings.NewReader(tt.input), &out))
			assert.Zero(t, out.Len())
		})
	}
}

func TestToStdoutMalformed(t *testing.T) {
	var out bytes.Buffer
	err := toStdout(pipeline.New(), Options{}, []export.Format{export.FormatKML}, strings.NewReader("<broken"), &out)
	assert.True(t, xmldoc.IsParseError(err))
	assert.Zero(t, out.Len())
}
