package xmlfeed

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const langAttr = "xml:lang"

// ExtractText returns the trimmed text of the element found at path below elem.
// A nil element, an invalid or missing path, or an element without text yields def.
func ExtractText(elem *etree.Element, path, def string) string {
	if elem == nil {
		return def
	}
	p, err := etree.CompilePath(path)
	if err != nil {
		return def
	}
	found := elem.FindElementPath(p)
	if found == nil {
		return def
	}
	if text := found.Text(); text != "" {
		return strings.TrimSpace(text)
	}
	return def
}

// ExtractCDATA picks the tag child written in lang, falling back to the first
// tag child with text, and returns its sanitized text.
func ExtractCDATA(elem *etree.Element, tag, lang string) string {
	if elem == nil {
		return ""
	}
	children := elem.SelectElements(tag)
	for _, child := range children {
		if child.SelectAttrValue(langAttr, "") == lang {
			if text := child.Text(); text != "" {
				return CleanHTML(text)
			}
		}
	}
	if len(children) > 0 {
		if text := children[0].Text(); text != "" {
			return CleanHTML(text)
		}
	}
	return ""
}

// attrValue returns the attribute value when the attribute is present, even if empty
func attrValue(elem *etree.Element, key, def string) string {
	if elem == nil {
		return def
	}
	if attr := elem.SelectAttr(key); attr != nil {
		return attr.Value
	}
	return def
}

// childAttr returns an attribute of the first tag child of elem
func childAttr(elem *etree.Element, tag, key, def string) string {
	if elem == nil {
		return def
	}
	return attrValue(elem.SelectElement(tag), key, def)
}

// childText returns the trimmed text of the first tag child, or "" when absent
func childText(elem *etree.Element, tag string) string {
	if elem == nil {
		return ""
	}
	child := elem.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// ParseQuantity coerces a numeric-looking quantity to an integer by way of a float,
// truncating toward zero. ok is false when s is not a finite number or does not fit in an int.
func ParseQuantity(s string) (n int, ok bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// addQuantity adds two quantities, reporting false on int overflow
func addQuantity(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}
