package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPackage zips the given parts into an in-memory .docx.
func buildPackage(t *testing.T, parts map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(parts[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readPackage(t *testing.T, data []byte) *Document {
	t.Helper()
	doc, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return doc
}

// roundTrip serializes doc and parses it back.
func roundTrip(t *testing.T, doc *Document) *Document {
	t.Helper()
	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	return readPackage(t, buf.Bytes())
}

func TestNew_IsEmpty(t *testing.T) {
	doc := New()
	assert.Equal(t, 0, doc.Len())
	assert.Empty(t, doc.Paragraphs())
	assert.Equal(t, "w", doc.prefix)
}

func TestAppendParagraph_RoundTrip(t *testing.T) {
	doc := New()
	doc.AppendParagraph("first")
	doc.AppendParagraph("a\tb\nc <&> \"q\"")
	doc.AppendParagraph("")

	got := roundTrip(t, doc)
	assert.Equal(t, []string{"first", "a\tb\nc <&> \"q\"", ""}, got.Paragraphs())
	assert.Equal(t, 3, got.Len())
}

func TestAppendParagraph_StaysAheadOfSectPr(t *testing.T) {
	doc := New()
	doc.AppendParagraph("one")
	doc.AppendParagraph("two")

	xmlText := string(doc.documentXML())
	one := strings.Index(xmlText, "one")
	two := strings.Index(xmlText, "two")
	sect := strings.Index(xmlText, "<w:sectPr/>")
	require.True(t, one >= 0 && two >= 0 && sect >= 0)
	assert.Less(t, one, two)
	assert.Less(t, two, sect)
	assert.True(t, strings.HasSuffix(xmlText, "<w:sectPr/></w:body></w:document>"))
}

func TestRemoveParagraph(t *testing.T) {
	doc := New()
	for _, s := range []string{"a", "b", "c"} {
		doc.AppendParagraph(s)
	}

	require.NoError(t, doc.RemoveParagraph(1))
	assert.Equal(t, []string{"a", "c"}, doc.Paragraphs())

	assert.Error(t, doc.RemoveParagraph(2))
	assert.Error(t, doc.RemoveParagraph(-1))
	assert.Equal(t, []string{"a", "c"}, roundTrip(t, doc).Paragraphs())
}

func TestClone_IsIndependent(t *testing.T) {
	doc := New()
	doc.AppendParagraph("a")
	doc.AppendParagraph("b")

	c := doc.Clone()
	c.AppendParagraph("c")
	require.NoError(t, c.RemoveParagraph(0))

	assert.Equal(t, []string{"a", "b"}, doc.Paragraphs())
	assert.Equal(t, []string{"b", "c"}, c.Paragraphs())
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.docx")
	doc := New()
	doc.AppendParagraph("hello")
	require.NoError(t, doc.Save(path))

	opened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, opened.Paragraphs())
}

func TestRead_PreservesForeignContent(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Heading</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
    <w:p><w:hyperlink><w:r><w:t xml:space="preserve">linked </w:t></w:r></w:hyperlink><w:r><w:t>text</w:t></w:r></w:p>
    <w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>
  </w:body>
</w:document>`
	styles := `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`
	data := buildPackage(t, map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         relsXML,
		"word/document.xml":   document,
		"word/styles.xml":     styles,
	}, "[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml")

	doc := readPackage(t, data)
	assert.Equal(t, []string{"Heading", "linked text"}, doc.Paragraphs(), "table cell paragraphs are not body paragraphs")

	doc.AppendParagraph("added")
	got := roundTrip(t, doc)
	assert.Equal(t, []string{"Heading", "linked text", "added"}, got.Paragraphs())

	xmlText := string(got.documentXML())
	assert.Contains(t, xmlText, "<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>")
	assert.Contains(t, xmlText, `<w:pgSz w:w="12240" w:h="15840"/>`)
	assert.Less(t, strings.Index(xmlText, "added"), strings.Index(xmlText, "<w:sectPr>"))

	var names []string
	for _, p := range got.parts {
		names = append(names, p.name)
	}
	assert.Equal(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"}, names)
	assert.Equal(t, styles, string(got.parts[3].data))
}

func TestRead_SelfClosingBodyAndCustomPrefix(t *testing.T) {
	document := `<m:document xmlns:m="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><m:body/></m:document>`
	data := buildPackage(t, map[string]string{
		"word/document.xml": document,
	}, "word/document.xml")

	doc := readPackage(t, data)
	assert.Equal(t, 0, doc.Len())

	doc.AppendParagraph("x\ty")
	got := roundTrip(t, doc)
	assert.Equal(t, []string{"x\ty"}, got.Paragraphs())
	assert.Equal(t, "m", got.prefix)
	assert.True(t, strings.HasSuffix(string(got.documentXML()), "</m:body></m:document>"))
}

func TestRead_DefaultNamespaceAppend(t *testing.T) {
	document := `<document xmlns="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><body><p><r><t>hello</t></r></p><sectPr/></body></document>`
	data := buildPackage(t, map[string]string{
		"word/document.xml": document,
	}, "word/document.xml")

	doc := readPackage(t, data)
	assert.Equal(t, "", doc.prefix)
	assert.Equal(t, []string{"hello"}, doc.Paragraphs())

	doc.AppendParagraph("ID: 1\tName: x\tAge: 1")
	got := roundTrip(t, doc)
	assert.Equal(t, []string{"hello", "ID: 1\tName: x\tAge: 1"}, got.Paragraphs())

	xmlText := string(got.documentXML())
	assert.NotContains(t, xmlText, "<:")
	assert.Contains(t, xmlText, "<r><tab/></r>")
	assert.True(t, strings.HasSuffix(xmlText, "<sectPr/></body></document>"))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		contains string
	}{
		{
			name:     "not a zip",
			data:     []byte("plain text"),
			contains: "open package",
		},
		{
			name: "missing document part",
			data: buildPackage(t, map[string]string{
				"_rels/.rels": relsXML,
			}, "_rels/.rels"),
			contains: "has no word/document.xml",
		},
		{
			name: "no body",
			data: buildPackage(t, map[string]string{
				"word/document.xml": `<w:document xmlns:w="x"></w:document>`,
			}, "word/document.xml"),
			contains: "no body",
		},
		{
			name: "broken xml",
			data: buildPackage(t, map[string]string{
				"word/document.xml": `<w:document xmlns:w="x"><w:body><w:p>`,
			}, "word/document.xml"),
			contains: "parse word/document.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data), int64(len(tt.data)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.docx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
