package xmlfeed

import (
	"github.com/beevik/etree"
	"github.com/feedlink/backend/internal/domain"
)

const defaultPrice = "0"

// parseSoteshop handles Soteshop/PrestaShop xmlfeeds exports
func parseSoteshop(root *etree.Element) []domain.NormalizedProduct {
	nodes := productNodes(root)
	products := make([]domain.NormalizedProduct, 0, len(nodes))
	for _, prod := range nodes {
		products = append(products, domain.NormalizedProduct{
			ProductID:   attrValue(prod, "id", ""),
			EAN:         ExtractText(prod, "producer_code", ""),
			Name:        ExtractText(prod, "name", ""),
			Producer:    ExtractText(prod, "producer", ""),
			Category:    childText(prod, "category"),
			PriceGross:  childAttr(prod, "price", "gross", defaultPrice),
			PriceNet:    childAttr(prod, "price", "net", defaultPrice),
			VAT:         defaultVAT,
			Currency:    defaultCurrency,
			Stock:       childAttr(prod, "stock", "quantity", defaultStock),
			URL:         ExtractText(prod, "url", ""),
			Description: truncate(CleanHTML(rawChildText(prod, "description")), DescriptionLimit),
		})
	}
	return products
}

// rawChildText returns the untrimmed text of the first tag child
func rawChildText(elem *etree.Element, tag string) string {
	child := elem.SelectElement(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}
