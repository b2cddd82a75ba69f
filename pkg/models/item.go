package models

// PairedItem points an output item back at the input item that produced it.
type PairedItem struct {
	Item int `json:"item"`
}

// Item is one record flowing between nodes. Parameters carries per-item
// overrides of the node configuration.
type Item struct {
	JSON       map[string]any `json:"json"`
	Parameters map[string]any `json:"parameters,omitempty"`
	PairedItem *PairedItem    `json:"pairedItem,omitempty"`
}

// NewItem builds an output item paired with the given input index.
func NewItem(json map[string]any, itemIndex int) Item {
	return Item{
		JSON:       json,
		PairedItem: &PairedItem{Item: itemIndex},
	}
}

// NewErrorItem builds the output item emitted for a failed input when the
// node continues on failure.
func NewErrorItem(message string, itemIndex int) Item {
	return NewItem(map[string]any{"error": message}, itemIndex)
}
