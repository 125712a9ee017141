package xmlfeed

import (
	"github.com/beevik/etree"
	"github.com/feedlink/backend/internal/domain"
)

func parseMaxima(root *etree.Element) []domain.NormalizedProduct {
	nodes := productNodes(root)
	products := make([]domain.NormalizedProduct, 0, len(nodes))
	for _, prod := range nodes {
		products = append(products, domain.NormalizedProduct{
			ProductID:   attrValue(prod, "id", ""),
			EAN:         ExtractText(prod, "ean", ""),
			Name:        ExtractText(prod, "name", ""),
			Producer:    ExtractText(prod, "producer", ""),
			Category:    ExtractText(prod, "category", ""),
			PriceGross:  ExtractText(prod, "price_gross", defaultPrice),
			PriceNet:    ExtractText(prod, "price_net", defaultPrice),
			VAT:         defaultVAT,
			Currency:    defaultCurrency,
			Stock:       ExtractText(prod, "stock", defaultStock),
			URL:         ExtractText(prod, "url", ""),
			Description: truncate(CleanHTML(ExtractText(prod, "description", "")), DescriptionLimit),
		})
	}
	return products
}
