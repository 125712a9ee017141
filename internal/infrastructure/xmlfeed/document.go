package xmlfeed

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/feedlink/backend/internal/domain"
	"golang.org/x/net/html/charset"
)

// DefaultLanguage is the preferred language code for IOF translated fields
const DefaultLanguage = "pol"

var productsPath = etree.MustCompilePath(".//product")

// ReadDocument parses raw feed bytes into an element tree and returns its root.
// Non-UTF-8 encodings declared in the XML prolog are decoded on the fly.
// The document must have exactly one root element and no text outside it.
func ReadDocument(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrMalformedDocument)
	}
	return root, nil
}

// checkTopLevel rejects a second root element and non-blank text around the root
func checkTopLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return fmt.Errorf("%w: junk after document element <%s>", domain.ErrMalformedDocument, t.Tag)
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return fmt.Errorf("%w: text outside the document element", domain.ErrMalformedDocument)
			}
		}
	}
	return nil
}

// Parser turns supplier feed documents into normalized products
type Parser struct {
	language string
}

// NewParser creates a parser preferring the given language for translated IOF fields
func NewParser(language string) *Parser {
	if language == "" {
		language = DefaultLanguage
	}
	return &Parser{language: language}
}

// Parse reads data and parses it with the given dialect
func (p *Parser) Parse(dialect domain.Dialect, data []byte) ([]domain.NormalizedProduct, error) {
	root, err := ReadDocument(data)
	if err != nil {
		return nil, err
	}
	return p.ParseRoot(dialect, root)
}

// ParseAuto reads data, detects its dialect and parses it
func (p *Parser) ParseAuto(data []byte) (domain.Dialect, []domain.NormalizedProduct, error) {
	root, err := ReadDocument(data)
	if err != nil {
		return 0, nil, err
	}
	dialect, err := Detect(root)
	if err != nil {
		return 0, nil, err
	}
	products, err := p.ParseRoot(dialect, root)
	return dialect, products, err
}

// ParseRoot parses an already-read document with the given dialect
func (p *Parser) ParseRoot(dialect domain.Dialect, root *etree.Element) ([]domain.NormalizedProduct, error) {
	switch dialect {
	case domain.DialectIOF:
		return parseIOF(root, p.language), nil
	case domain.DialectSoteshop:
		return parseSoteshop(root), nil
	case domain.DialectMaxima:
		return parseMaxima(root), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDialect, dialect)
}

// productNodes returns every product element below root, in document order
func productNodes(root *etree.Element) []*etree.Element {
	var nodes []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "product" {
				nodes = append(nodes, child)
			}
			walk(child)
		}
	}
	walk(root)
	return nodes
}
