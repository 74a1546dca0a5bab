package merchant

import "strings"

// Hint is a non-binding category suggestion derived from a point-of-sale
// processor prefix. Hints are only shown for transactions that fell through
// to "Other" and are never applied automatically.
type Hint struct {
	Prefix   string `json:"prefix"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

// Prefix hints, keyed by the normalized prefix Normalize records. Square and
// Toast dominate small food businesses; PayPal and Shopify skew retail.
var prefixHints = map[string]Hint{
	"sq": {
		Prefix:   "SQ *",
		Category: "Dining",
		Note:     "Square terminal: usually an independent cafe, food truck, or small restaurant",
	},
	"tst": {
		Prefix:   "TST*",
		Category: "Dining",
		Note:     "Toast point-of-sale: almost always a restaurant or bar",
	},
	"paypal": {
		Prefix:   "PAYPAL *",
		Category: "Shopping",
		Note:     "PayPal checkout: typically an online purchase",
	},
	"pp": {
		Prefix:   "PP*",
		Category: "Shopping",
		Note:     "PayPal checkout: typically an online purchase",
	},
	"sp": {
		Prefix:   "SP ",
		Category: "Shopping",
		Note:     "Shopify storefront: an online retail order",
	},
	"dd": {
		Prefix:   "DD *",
		Category: "Dining",
		Note:     "DoorDash: food delivery",
	},
	"ig": {
		Prefix:   "IG *",
		Category: "Shopping",
		Note:     "Instagram checkout: an online retail order",
	},
}

// HintFor returns the processor hint for a description, if its prefix is
// recognized. The bool reports whether a hint exists.
func HintFor(description string) (Hint, bool) {
	_, prefix := Normalize(description)
	if prefix == "" {
		return Hint{}, false
	}
	h, ok := prefixHints[prefix]
	return h, ok
}

// AllHints lists the known processor hints for display, in a stable order.
func AllHints() []Hint {
	order := []string{"sq", "tst", "dd", "paypal", "pp", "sp", "ig"}
	hints := make([]Hint, 0, len(order))
	for _, k := range order {
		if h, ok := prefixHints[k]; ok {
			hints = append(hints, h)
		}
	}
	return hints
}

// HasProcessorPrefix reports whether the description starts with any
// recognized processor token.
func HasProcessorPrefix(description string) bool {
	s := strings.ToLower(strings.TrimSpace(description))
	for _, p := range processorPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
