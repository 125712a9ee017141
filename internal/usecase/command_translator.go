package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/feedlink/backend/internal/domain"
)

// DefaultInventoryID is the BaseLinker catalog used when none is configured
const DefaultInventoryID = 81501

// BaseLinker inventory methods reachable from commands
const (
	MethodGetInventoryProductsList = "getInventoryProductsList"
	MethodGetInventoryProductsData = "getInventoryProductsData"
	MethodGetInventories           = "getInventories"
	MethodGetInventoryCategories   = "getInventoryCategories"
	MethodGetInventoryWarehouses   = "getInventoryWarehouses"
)

// Compiled patterns for parameter extraction
var (
	productIDPattern = regexp.MustCompile(`\d+`)
	eanPattern       = regexp.MustCompile(`\d{8,13}`)
)

const (
	msgMissingProductID = "Please specify product ID (e.g., 'get product details 12345')"
	msgMissingEAN       = "Please specify EAN number"
	msgStockUpdate      = "Stock updates require: 'update stock [product_id] to [quantity]' (e.g., 'update stock 12345 to 50')"
	msgUnrecognized     = "I don't understand that command. Try: 'list products', 'get inventories', 'get categories', 'search ean 1234567890'"
)

// commandRule pairs a keyword test with the handler that builds the result
type commandRule struct {
	matches func(command string) bool
	handle  func(command string) domain.CommandResult
}

// CommandTranslator maps free-text commands to BaseLinker calls.
// Rules are evaluated in order and the first match wins. No rule produces a
// mutating call.
type CommandTranslator struct {
	inventoryID int
	rules       []commandRule
}

// NewCommandTranslator creates a translator scoped to the given inventory
func NewCommandTranslator(inventoryID int) *CommandTranslator {
	if inventoryID == 0 {
		inventoryID = DefaultInventoryID
	}
	t := &CommandTranslator{inventoryID: inventoryID}
	t.rules = []commandRule{
		{containsAny("list products", "get products", "show products", "view products"), t.listProducts},
		{containsAny("product details", "get product"), t.productDetails},
		{containsAny("inventories", "list inventory"), t.listInventories},
		{containsAny("categories"), t.listCategories},
		{containsAny("ean", "barcode"), t.searchEAN},
		{containsAny("update stock", "set stock"), t.stockUpdate},
		{containsAny("warehouse"), t.listWarehouses},
	}
	return t
}

// Translate resolves a command to a CommandResult
func (t *CommandTranslator) Translate(command string) domain.CommandResult {
	command = strings.ToLower(strings.TrimSpace(command))
	for _, rule := range t.rules {
		if rule.matches(command) {
			return rule.handle(command)
		}
	}
	return clarify(msgUnrecognized)
}

func (t *CommandTranslator) listProducts(string) domain.CommandResult {
	return domain.CommandResult{
		Method:     MethodGetInventoryProductsList,
		Parameters: map[string]interface{}{"inventory_id": t.inventoryID, "page": 1},
		Message:    "Listing products from inventory",
	}
}

func (t *CommandTranslator) productDetails(command string) domain.CommandResult {
	productID := productIDPattern.FindString(command)
	if productID == "" {
		return clarify(msgMissingProductID)
	}
	return domain.CommandResult{
		Method: MethodGetInventoryProductsData,
		Parameters: map[string]interface{}{
			"inventory_id": t.inventoryID,
			"products":     []string{productID},
		},
		Message: fmt.Sprintf("Getting details for product %s", productID),
	}
}

func (t *CommandTranslator) listInventories(string) domain.CommandResult {
	return domain.CommandResult{
		Method:     MethodGetInventories,
		Parameters: map[string]interface{}{},
		Message:    "Getting list of inventories",
	}
}

func (t *CommandTranslator) listCategories(string) domain.CommandResult {
	return domain.CommandResult{
		Method:     MethodGetInventoryCategories,
		Parameters: map[string]interface{}{"inventory_id": t.inventoryID},
		Message:    "Getting categories",
	}
}

func (t *CommandTranslator) searchEAN(command string) domain.CommandResult {
	ean := eanPattern.FindString(command)
	if ean == "" {
		return clarify(msgMissingEAN)
	}
	return domain.CommandResult{
		Method: MethodGetInventoryProductsList,
		Parameters: map[string]interface{}{
			"inventory_id": t.inventoryID,
			"filter_ean":   ean,
			"page":         1,
		},
		Message: fmt.Sprintf("Searching for product with EAN %s", ean),
	}
}

// stockUpdate only explains the phrasing; stock changes are never executed from commands
func (t *CommandTranslator) stockUpdate(string) domain.CommandResult {
	return clarify(msgStockUpdate)
}

func (t *CommandTranslator) listWarehouses(string) domain.CommandResult {
	return domain.CommandResult{
		Method:     MethodGetInventoryWarehouses,
		Parameters: map[string]interface{}{},
		Message:    "Getting list of warehouses",
	}
}

func clarify(message string) domain.CommandResult {
	return domain.CommandResult{Message: message}
}

func containsAny(phrases ...string) func(string) bool {
	return func(command string) bool {
		for _, phrase := range phrases {
			if strings.Contains(command, phrase) {
				return true
			}
		}
		return false
	}
}
