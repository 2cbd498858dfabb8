// Package docx reads and writes the paragraph list of a WordprocessingML
// (.docx) package. Only the main document body is interpreted; every other
// part of the package, and every body element that is not touched, is
// written back byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dusk-indust/userstore/internal/store"
)

const documentPart = "word/document.xml"

// part is one file inside the zip package.
type part struct {
	name string
	data []byte
}

// node is one direct child of <w:body>.
type node struct {
	raw  []byte
	para bool
	text string // plain text, paragraphs only
	name string // local element name
}

// Document is an opened .docx package.
type Document struct {
	parts  []part
	prefix string // namespace prefix bound to the main WordprocessingML namespace
	head   []byte // document.xml up to and including <w:body>
	tail   []byte // </w:body> to the end
	nodes  []node
}

// New returns an empty document with the minimal set of package parts.
func New() *Document {
	doc := &Document{
		parts: []part{
			{name: "[Content_Types].xml", data: []byte(contentTypesXML)},
			{name: "_rels/.rels", data: []byte(relsXML)},
			{name: documentPart, data: []byte(documentXML)},
		},
	}
	if err := doc.parseBody([]byte(documentXML)); err != nil {
		panic("docx: bad built-in template: " + err.Error())
	}
	return doc
}

// Open reads the package at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Read(f, info.Size())
}

// Read parses a package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	doc := &Document{}
	var body []byte
	for _, zf := range zr.File {
		data, err := readZipFile(zf)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		if zf.Name == documentPart {
			body = data
		}
		doc.parts = append(doc.parts, part{name: zf.Name, data: data})
	}
	if body == nil {
		return nil, fmt.Errorf("package has no %s", documentPart)
	}
	if err := doc.parseBody(body); err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	return doc, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Len returns the number of body paragraphs.
func (d *Document) Len() int {
	n := 0
	for _, nd := range d.nodes {
		if nd.para {
			n++
		}
	}
	return n
}

// Paragraphs returns the plain text of every body paragraph in order.
// Tabs and line breaks inside a paragraph come back as '\t' and '\n'.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, nd := range d.nodes {
		if nd.para {
			out = append(out, nd.text)
		}
	}
	return out
}

// AppendParagraph adds a paragraph holding text at the end of the body,
// ahead of the trailing section properties if present.
func (d *Document) AppendParagraph(text string) {
	nd := node{raw: d.paragraphXML(text), para: true, text: text, name: "p"}

	at := len(d.nodes)
	if at > 0 && d.nodes[at-1].name == "sectPr" {
		at--
	}
	d.nodes = append(d.nodes, node{})
	copy(d.nodes[at+1:], d.nodes[at:])
	d.nodes[at] = nd
}

// RemoveParagraph deletes the i-th paragraph.
func (d *Document) RemoveParagraph(i int) error {
	if i < 0 {
		return fmt.Errorf("paragraph %d out of range", i)
	}
	seen := 0
	for j, nd := range d.nodes {
		if !nd.para {
			continue
		}
		if seen == i {
			d.nodes = append(d.nodes[:j], d.nodes[j+1:]...)
			return nil
		}
		seen++
	}
	return fmt.Errorf("paragraph %d out of range", i)
}

// Clone returns an independent copy of d. Package parts are shared, they are
// never mutated in place.
func (d *Document) Clone() *Document {
	c := *d
	c.nodes = append([]node(nil), d.nodes...)
	return &c
}

// WriteTo writes the package as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, p := range d.parts {
		data := p.data
		if p.name == documentPart {
			data = d.documentXML()
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return cw.n, err
		}
		if _, err := fw.Write(data); err != nil {
			return cw.n, err
		}
	}
	err := zw.Close()
	return cw.n, err
}

// Save atomically replaces the file at path with the package.
func (d *Document) Save(path string) error {
	return store.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := d.WriteTo(w)
		return err
	})
}

func (d *Document) documentXML() []byte {
	var buf bytes.Buffer
	buf.Write(d.head)
	for _, nd := range d.nodes {
		buf.Write(nd.raw)
	}
	buf.Write(d.tail)
	return buf.Bytes()
}

// paragraphXML renders text as a paragraph of runs, with '\t' as <w:tab/>
// and '\n' as <w:br/>.
func (d *Document) paragraphXML(text string) []byte {
	var (
		p   = qualify(d.prefix, "p")
		r   = qualify(d.prefix, "r")
		t   = qualify(d.prefix, "t")
		tab = qualify(d.prefix, "tab")
		br  = qualify(d.prefix, "br")
	)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<%s>", p)

	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		fmt.Fprintf(&buf, `<%s><%s xml:space="preserve">`, r, t)
		_ = xml.EscapeText(&buf, []byte(seg.String()))
		fmt.Fprintf(&buf, "</%s></%s>", t, r)
		seg.Reset()
	}
	for _, c := range text {
		switch c {
		case '\t':
			flush()
			fmt.Fprintf(&buf, "<%s><%s/></%s>", r, tab, r)
		case '\n':
			flush()
			fmt.Fprintf(&buf, "<%s><%s/></%s>", r, br, r)
		default:
			seg.WriteRune(c)
		}
	}
	flush()

	fmt.Fprintf(&buf, "</%s>", p)
	return buf.Bytes()
}

// parseBody splits document.xml into head, body children and tail.
func (d *Document) parseBody(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		depth     int
		bodyDepth = -1
		bodyStart int64
		nodes     []node
	)
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return errors.New("document has no body")
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if bodyDepth < 0 {
				if t.Name.Local == "body" && depth == 2 {
					bodyDepth = depth
					bodyStart = dec.InputOffset()
					d.prefix = tagPrefix(data[off:bodyStart])
				}
				continue
			}
			// direct child of body
			nd := node{name: t.Name.Local}
			if t.Name.Local == "p" {
				text, err := paragraphText(dec)
				if err != nil {
					return err
				}
				nd.para, nd.text = true, text
			} else if err := dec.Skip(); err != nil {
				return err
			}
			depth--
			nd.raw = append([]byte(nil), data[off:dec.InputOffset()]...)
			nodes = append(nodes, nd)

		case xml.EndElement:
			if depth == bodyDepth {
				d.head, d.tail = splitBody(data, bodyStart, off, d.prefix)
				d.nodes = nodes
				return nil
			}
			depth--
		}
	}
}

// splitBody returns head and tail around the body content. A self-closing
// <w:body/> is expanded so children can be inserted.
func splitBody(data []byte, start, end int64, prefix string) (head, tail []byte) {
	if start == end && bytes.HasSuffix(data[:start], []byte("/>")) {
		head = append(append([]byte(nil), data[:start-2]...), '>')
		tail = append([]byte("</"+qualify(prefix, "body")+">"), data[end:]...)
		return head, tail
	}
	return append([]byte(nil), data[:start]...), append([]byte(nil), data[end:]...)
}

// paragraphText consumes tokens up to the end of the current <w:p> and
// returns its plain text.
func paragraphText(dec *xml.Decoder) (string, error) {
	var (
		sb    strings.Builder
		depth = 1
		inT   bool
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr", "rPr":
				// property blocks carry <w:tab> stops, not text
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			}
			depth++
			switch t.Name.Local {
			case "t":
				inT = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inT = false
			}
		case xml.CharData:
			if inT {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// tagPrefix extracts the namespace prefix from a raw start tag such as
// "<w:body>". An unprefixed tag yields "".
func tagPrefix(tag []byte) string {
	s := strings.TrimPrefix(string(tag), "<")
	end := strings.IndexAny(s, " \t\r\n/>")
	if end >= 0 {
		s = s[:end]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i]
	}
	return ""
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:sectPr/></w:body></w:document>`
