package badger

import (
	"fmt"

	"github.com/poiesic/specmatch/core"
)

// Key prefixes for different data types
const (
	productRecordPrefix = "prodrec"
)

// makeProductKey generates a key for a product record.
// SKUs are free-form text, so the key uses the content-derived ID to keep
// keys fixed-width and collision-resistant.
func makeProductKey(sku string) []byte {
	return []byte(fmt.Sprintf("%s:%d", productRecordPrefix, core.IDFromContent(sku)))
}
