package xfmr

import "encoding/json"

// CatalogItem is the inventory entry of a transformer code.
type CatalogItem struct {
	Name string `json:"name"`
	MRID string `json:"mRID"`
}

// Catalog returns the inventory item of the code.
func (c *TransformerCode) Catalog() CatalogItem {
	return CatalogItem{Name: c.PName, MRID: c.ID}
}

// CatalogEntry renders the code's inventory item as a JSON object.
func (c *TransformerCode) CatalogEntry() string {
	b, _ := json.Marshal(c.Catalog())
	return string(b)
}
