package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is the ordered middleware chain mounted in front of the bot routes.
type Transport struct {
	middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	t := &Transport{}
	for _, m := range middlewares {
		t.Register(m)
	}
	return t
}

func (t *Transport) Register(m Middleware) {
	if m != nil {
		t.middlewares = append(t.middlewares, m)
	}
}

func (t *Transport) Len() int {
	return len(t.middlewares)
}

// Mount installs the chain on r in registration order.
func (t *Transport) Mount(r fiber.Router) {
	if t == nil || len(t.middlewares) == 0 {
		return
	}
	handlers := make([]interface{}, 0, len(t.middlewares))
	for _, m := range t.middlewares {
		handlers = append(handlers, m.Middleware())
	}
	r.Use(handlers...)
}
