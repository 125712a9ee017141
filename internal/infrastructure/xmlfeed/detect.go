package xmlfeed

import (
	"github.com/beevik/etree"
	"github.com/feedlink/backend/internal/domain"
)

var (
	iofProbe      = etree.MustCompilePath(".//product/producer")
	soteshopProbe = etree.MustCompilePath(".//products/product")
)

// Detect picks the dialect of a document from its root tag and structure.
// Probes run in a fixed order and the first match wins.
func Detect(root *etree.Element) (domain.Dialect, error) {
	if root == nil {
		return 0, domain.ErrUnrecognizedFormat
	}
	switch {
	case root.Tag == "products" && root.FindElementPath(iofProbe) != nil:
		return domain.DialectIOF, nil
	case root.Tag == "offer" && root.FindElementPath(soteshopProbe) != nil:
		return domain.DialectSoteshop, nil
	case root.FindElementPath(productsPath) != nil:
		return domain.DialectMaxima, nil
	}
	return 0, domain.ErrUnrecognizedFormat
}
