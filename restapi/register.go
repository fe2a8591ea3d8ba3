package restapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// HTTPVerb enumerates supported HTTP operations.
type HTTPVerb int

const (
	// Unknown represents an unspecified HTTP verb.
	Unknown HTTPVerb = iota
	GET
	POST
	PUT
	DELETE
)

// RestMethod describes a REST route handler.
type RestMethod struct {
	Verb    HTTPVerb
	Path    string
	Handler gin.HandlerFunc
}

// Registry holds the REST methods to mount, keyed by verb and path.
type Registry struct {
	methods map[string]RestMethod
	// order keeps mounting deterministic.
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]RestMethod)}
}

// RegisterMethod builds a RestMethod and registers it using Register.
func (r *Registry) RegisterMethod(verb HTTPVerb, path string, h gin.HandlerFunc) error {
	return r.Register(RestMethod{Verb: verb, Path: path, Handler: h})
}

// Register adds m, refusing duplicates.
func (r *Registry) Register(m RestMethod) error {
	key := fmt.Sprintf("%d_%s", m.Verb, m.Path)
	if _, exists := r.methods[key]; exists {
		return fmt.Errorf("can't add %s, an existing handler in REST method map exists", key)
	}
	r.methods[key] = m
	r.order = append(r.order, key)
	return nil
}

// RestMethods returns the registered methods in registration order.
func (r *Registry) RestMethods() []RestMethod {
	ms := make([]RestMethod, len(r.order))
	for i, k := range r.order {
		ms[i] = r.methods[k]
	}
	return ms
}

// Mount adds every registered method to g, passing each handler through wrap if set.
func (r *Registry) Mount(g *gin.RouterGroup, wrap func(gin.HandlerFunc) gin.HandlerFunc) {
	for _, rm := range r.RestMethods() {
		h := rm.Handler
		if wrap != nil {
			h = wrap(h)
		}
		switch rm.Verb {
		case GET:
			g.GET(rm.Path, h)
		case POST:
			g.POST(rm.Path, h)
		case PUT:
			g.PUT(rm.Path, h)
		case DELETE:
			g.DELETE(rm.Path, h)
		default:
			panic(fmt.Sprintf("HTTP verb %d not supported", rm.Verb))
		}
	}
}
