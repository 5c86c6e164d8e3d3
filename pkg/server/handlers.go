package server

import (
	"BookHive/handler"
)

type Handlers struct {
	Book  *handler.Book
	Cart  *handler.Cart
	Order *handler.Order
	Pay   *handler.Pay
}
