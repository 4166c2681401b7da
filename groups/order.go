package groups

import (
	"cmp"

	"github.com/ardnew/vxs/lang"
)

// orderEntity provides the properties of one order. A nil order has no
// properties.
type orderEntity struct {
	store *Store
	order *Order
}

func (e orderEntity) Properties(s *lang.Scope) lang.Properties {
	o := e.order
	if o == nil {
		return nil
	}

	var (
		subtotal float64
		count    int64
	)

	for _, it := range o.Items {
		subtotal += it.Price * float64(it.Quantity)
		count += it.Quantity
	}

	items := make([]lang.Provider, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemEntity{store: e.store, item: it})
	}

	return lang.Properties{
		"id":           integer("ID", o.ID),
		"status":       text("Status", o.Status),
		"status_label": text("Status label", labelOf(o.Status)),
		"created":      date("Created", o.Created),
		"currency":     text("Currency", cmp.Or(o.Currency, e.store.Site.Currency)),
		"customer":     userObject(s, e.store, o.Customer, "Customer"),
		"items": lang.NewObjectList("Items",
			lang.ListerFunc(func(*lang.Scope) []lang.Provider { return items }),
			lang.WithTemplate(itemEntity{store: e.store}),
		),
		"item_count": integer("Item count", count),
		"subtotal":   number("Subtotal", subtotal),
		"shipping":   number("Shipping", o.Shipping),
		"tax":        number("Tax", o.Tax),
		"total":      number("Total", subtotal+o.Shipping+o.Tax),
	}
}

// itemEntity provides the properties of one order line.
type itemEntity struct {
	store *Store
	item  OrderItem
}

func (e itemEntity) Properties(s *lang.Scope) lang.Properties {
	it := e.item

	return lang.Properties{
		"product":  postObject(s, e.store, it.Product, "Product"),
		"quantity": integer("Quantity", it.Quantity),
		"price":    number("Unit price", it.Price),
		"subtotal": number("Subtotal", it.Price*float64(it.Quantity)),
	}
}

func orderGroup(store *Store, o *Order) *lang.Group {
	return lang.NewGroup("order",
		lang.NewObject("Order", orderEntity{store: store, order: o},
			lang.WithAliases(map[string]string{"customer_name": "customer.display_name"}),
		),
	)
}
