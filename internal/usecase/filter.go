package usecase

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/feedlink/backend/internal/domain"
	"github.com/feedlink/backend/internal/infrastructure/xmlfeed"
	"github.com/samber/lo"
)

// FilterProducts returns the products matching every non-empty criterion of filter.
// The input slice is left untouched.
func FilterProducts(products []domain.NormalizedProduct, filter domain.ProductFilter) []domain.NormalizedProduct {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	return lo.Filter(products, func(p domain.NormalizedProduct, _ int) bool {
		if filter.Producer != "" && p.Producer != filter.Producer {
			return false
		}
		if filter.MinStock > 0 && stockOf(p) < filter.MinStock {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.EAN), search) &&
			!strings.Contains(strings.ToLower(p.Producer), search) {
			return false
		}
		return true
	})
}

// UniqueProducers returns the sorted distinct producer names
func UniqueProducers(products []domain.NormalizedProduct) []string {
	producers := lo.Uniq(lo.Map(products, func(p domain.NormalizedProduct, _ int) string {
		return p.Producer
	}))
	sort.Strings(producers)
	return producers
}

// Summarize computes feed statistics. Totals and the producer breakdown cover all
// products; stock and price averages cover the filtered set.
func Summarize(all, filtered []domain.NormalizedProduct) domain.FeedSummary {
	summary := domain.FeedSummary{
		TotalProducts:   len(all),
		WithStock:       lo.CountBy(all, func(p domain.NormalizedProduct) bool { return stockOf(p) > 0 }),
		UniqueProducers: len(UniqueProducers(all)),
		AfterFilters:    len(filtered),
		TotalStock:      lo.SumBy(filtered, stockOf),
		Producers:       producerBreakdown(all),
	}

	if len(filtered) > 0 {
		summary.AverageStock = float64(summary.TotalStock) / float64(len(filtered))
		summary.AveragePrice = lo.SumBy(filtered, grossPriceOf) / float64(len(filtered))
	}
	return summary
}

// producerBreakdown groups products per producer, largest groups first
func producerBreakdown(products []domain.NormalizedProduct) []domain.ProducerBreakdown {
	groups := lo.GroupBy(products, func(p domain.NormalizedProduct) string { return p.Producer })

	breakdown := make([]domain.ProducerBreakdown, 0, len(groups))
	for producer, items := range groups {
		total := lo.SumBy(items, stockOf)
		breakdown = append(breakdown, domain.ProducerBreakdown{
			Producer:     producer,
			Products:     len(items),
			TotalStock:   total,
			AverageStock: float64(total) / float64(len(items)),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Products != breakdown[j].Products {
			return breakdown[i].Products > breakdown[j].Products
		}
		return breakdown[i].Producer < breakdown[j].Producer
	})
	return breakdown
}

// stockOf coerces the stock field; values that are not numbers count as zero
func stockOf(p domain.NormalizedProduct) int {
	n, _ := xmlfeed.ParseQuantity(p.Stock)
	return n
}

// grossPriceOf parses the gross price, accepting a decimal comma
func grossPriceOf(p domain.NormalizedProduct) float64 {
	f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(p.PriceGross), ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
