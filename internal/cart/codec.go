package cart

import (
	"encoding/json"
	"fmt"
)

// Encode renders the cart as a JSON array of line item records, the blob
// format the transport layer round-trips on every request.
func Encode(c Cart) (string, error) {
	if c == nil {
		c = Cart{}
	}

	blob, err := json.Marshal([]LineItem(c))
	if err != nil {
		return "", fmt.Errorf("marshal cart failed: %w", err)
	}
	return string(blob), nil
}

// Decode parses a cart blob. Corruption is self-healing, not fatal: any
// structural or type failure yields an empty cart instead of an error.
// Records that would break the cart invariants are repaired on the way in,
// a non-positive quantity drops the record and duplicate product ids merge.
func Decode(blob string) Cart {
	if blob == "" {
		return Cart{}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return Cart{}
	}

	c := Cart{}
	for _, li := range items {
		if li.Quantity <= 0 {
			continue
		}
		if i := c.indexOf(li.ProductID); i >= 0 {
			c[i].Quantity += li.Quantity
			continue
		}
		c = append(c, li)
	}
	return c
}
