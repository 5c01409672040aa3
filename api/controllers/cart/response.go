package cart

import "github.com/brazzaeats/brazzaeats-backend/internal/cart"

type cartQuote struct {
	Groups []cart.RestaurantGroup `json:"groups"`
	Totals cart.Totals            `json:"totals"`
	Empty  bool                   `json:"empty"`
}

func newCartQuote(q cart.Quote) cartQuote {
	groups := q.Groups
	if groups == nil {
		groups = []cart.RestaurantGroup{}
	}
	return cartQuote{
		Groups: groups,
		Totals: q.Totals,
		Empty:  q.Totals.ItemCount == 0,
	}
}
