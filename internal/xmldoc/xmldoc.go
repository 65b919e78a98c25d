// Package xmldoc builds a generic element tree from XML input so that
// documents of unknown schema can be queried by element name.
package xmldoc

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ParserErrorElement is the marker element browsers insert into documents
// they failed to parse. Inputs saved from such a DOM carry it verbatim.
const ParserErrorElement = "parsererror"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseError reports input that is not a well-formed XML document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed xml: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether any error in err's chain is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Node is either an element (Name.Local is set) or a run of character data.
type Node struct {
	Parent   *Node
	Name     xml.Name
	Data     string
	Attr     []xml.Attr
	Children []*Node
}

// Document is a parsed XML tree with a single root element.
type Document struct {
	Root *Node
}

// Parser turns raw bytes into a Document. The zero value is ready to use.
type Parser struct{}

// ParseDocument implements the document parsing capability used by the pipeline.
func (Parser) ParseDocument(r io.Reader) (*Document, error) {
	return Parse(r)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a whole XML document. Declared encodings other than UTF-8
// (windows-1251 is common for cadastral exports) are decoded transparently.
// A leading UTF-8 byte-order mark is skipped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(skipBOM(r))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var root, cur *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Parent: cur, Name: t.Name, Attr: t.Copy().Attr}
			if cur == nil {
				if root != nil {
					return nil, &ParseError{Err: errors.New("multiple root elements")}
				}
				root = n
			} else {
				cur.Children = append(cur.Children, n)
			}
			cur = n
		case xml.EndElement:
			if cur == nil {
				return nil, &ParseError{Err: fmt.Errorf("unexpected end element </%s>", t.Name.Local)}
			}
			cur = cur.Parent
		case xml.CharData:
			if cur == nil {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, &ParseError{Err: errors.New("character data outside root element")}
				}
				continue
			}
			cur.Children = append(cur.Children, &Node{Parent: cur, Data: string(t)})
		}
	}

	if root == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	if cur != nil {
		return nil, &ParseError{Err: fmt.Errorf("unclosed element <%s>", cur.Name.Local)}
	}

	doc := &Document{Root: root}
	if doc.Find(ByName(ParserErrorElement)) != nil {
		return nil, &ParseError{Err: errors.New("document contains a parser error marker")}
	}

	return doc, nil
}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
