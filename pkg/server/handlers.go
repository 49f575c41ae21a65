package server

import (
	"Lotus/handler"
)

type Handlers struct {
	Backpack *handler.Backpack
	Checkin  *handler.Checkin
	Exchange *handler.Exchange
	Item     *handler.Item
	Admin    *handler.Admin
}
