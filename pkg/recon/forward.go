package recon

import (
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// BuildSupplierOrder maps a resolved platform order onto a supplier order
// request. Every product line carries its own delivery address entry, and
// fallbackPhone stands in when the order has none; suppliers require a
// phone number on every entry.
func BuildSupplierOrder(order *platform.Order, items []platform.LineItem, fallbackPhone string) *supplier.CreateOrderRequest {
	sa := order.ShippingAddress
	addr := supplier.AddressBook{
		Name:       sa.Name,
		Address:    sa.Line1,
		Address2:   sa.Line2,
		City:       sa.City,
		Province:   sa.Province,
		PostalCode: sa.PostalCode,
		Country:    sa.CountryCode,
		Email:      order.Email,
		Phone:      sa.Phone,
		Comments:   order.Note,
	}
	if addr.Phone == "" {
		addr.Phone = fallbackPhone
	}

	products := make([]supplier.OrderProduct, 0, len(items))
	for _, li := range items {
		products = append(products, supplier.OrderProduct{
			SKU:      li.SKU,
			Quantity: li.Quantity,
			Address:  addr,
		})
	}

	return &supplier.CreateOrderRequest{
		Reference: order.Name,
		Country:   sa.CountryCode,
		Products:  products,
	}
}
