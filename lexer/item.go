// SPDX-License-Identifier: MIT
package lexer

type (
	// ItemID identifies the kind of a lexed Item.
	ItemID int

	// Item holds a lexed token.
	Item struct {
		Err error
		Val string // Text of this Item.
		ID  ItemID // Kind of this Item.
		Pos int    // Starting position (in bytes) of this Item.
	}
)

const (
	_             ItemID = iota // Consume 0 to start actual numbering at 1.
	ItemError                   // Lexing failed; Err is set.
	ItemSplitter                // Separates siblings.
	ItemEOF                     // End of the source.
	ItemValue                   // A node key.
	ItemEndMarker               // Closes a node's children.
)

var itemNames = map[ItemID]string{
	ItemError:     "error",
	ItemSplitter:  "splitter",
	ItemEOF:       "EOF",
	ItemValue:     "value",
	ItemEndMarker: "end marker",
}

// String is the fmt.Stringer implementation for ItemID.
func (i ItemID) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}

	return "unknown"
}
