// Package restapi surfaces a doctree Tree over HTTP using gin.
package restapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/navexpr"
	"github.com/sharedcode/doctree/node"
	"github.com/sharedcode/doctree/restapi/docs"
	"github.com/sharedcode/doctree/tree"
)

// BasePath is where the API methods are mounted.
const BasePath = "/api/v1"

const alreadyThere = "You seem to already be there."

// Server holds the tree the handlers operate on.
type Server struct {
	tree   *tree.Tree
	parser *navexpr.Parser
	// Token, when set, is required as "Authorization: Bearer <Token>".
	Token string
}

// NewServer returns a Server over t. A nil parser uses navexpr's default levels.
func NewServer(t *tree.Tree, parser *navexpr.Parser) *Server {
	if parser == nil {
		parser = navexpr.NewParser()
	}
	return &Server{tree: t, parser: parser}
}

// Register adds the server's methods to r.
func (s *Server) Register(r *Registry) error {
	return errors.Join(
		r.RegisterMethod(GET, "/navspot", s.GetNavSpot),
		r.RegisterMethod(GET, "/nodes/*path", s.GetNode),
		r.RegisterMethod(PUT, "/nodes/*path", s.PutNode),
		r.RegisterMethod(POST, "/navigate", s.PostNavigate),
		r.RegisterMethod(POST, "/load/*path", s.PostLoad),
	)
}

// NewRouter returns a gin engine with the server's methods under BasePath and the
// swagger UI at /swagger/index.html.
func NewRouter(s *Server) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	docs.SwaggerInfo.BasePath = BasePath

	r := NewRegistry()
	if err := s.Register(r); err != nil {
		return nil, err
	}
	r.Mount(router.Group(BasePath), s.verifyHeaderToken)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router, nil
}

func (s *Server) verifyHeaderToken(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Token == "" {
			h(c)
			return
		}
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token != s.Token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		h(c)
	}
}

// NodeResponse is a node view plus its location bar labels, root first.
type NodeResponse struct {
	Node     tree.View `json:"node"`
	Location []string  `json:"location"`
	Message  string    `json:"message,omitempty"`
}

func (s *Server) respond(n *node.Node) NodeResponse {
	anc := s.tree.Ancestry(n)
	loc := make([]string, 0, len(anc))
	for _, a := range anc[1:] {
		loc = append(loc, s.parser.LocationTag(s.tree.Snapshot(a)))
	}
	return NodeResponse{Node: s.tree.Snapshot(n), Location: loc}
}

// keysOf splits a "*path" parameter into node keys.
func keysOf(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// resolve walks keys from the root, loading as needed, without moving the nav spot.
func (s *Server) resolve(ctx context.Context, keys []string) (*node.Node, error) {
	n := s.tree.Root()
	for _, k := range keys {
		next, err := s.tree.ResolveChild(ctx, n, k)
		if err != nil {
			return nil, err
		}
		n = next
	}
	return n, nil
}

func statusOf(err error) int {
	switch doctree.CodeOf(err) {
	case doctree.ChildNotFound:
		return http.StatusNotFound
	case doctree.InvalidKey, doctree.InvalidArgument, doctree.NoDestination, doctree.InvalidGraft, doctree.CycleDetected:
		return http.StatusBadRequest
	case doctree.FetchFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	msg := err.Error()
	var pe *navexpr.ParseError
	if errors.As(err, &pe) {
		msg = pe.Text
	}
	c.IndentedJSON(statusOf(err), gin.H{"message": msg})
}
