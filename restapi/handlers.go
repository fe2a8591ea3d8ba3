package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/navexpr"
	"github.com/sharedcode/doctree/tree"
)

// NavigateRequest is the body of POST /navigate. Exactly one of Query or Path is used,
// Query wins if both are set.
type NavigateRequest struct {
	// Query is a search bar query such as "(ESV) Genesis 3", read relative to the nav spot.
	Query string `json:"query,omitempty"`
	// Path is a navigation path from the root, e.g. {"esv": {"genesis": true}}.
	Path map[string]any `json:"path,omitempty"`
}

// GetNavSpot godoc
// @Summary GetNavSpot returns the current navigation position.
// @Tags Navigation
// @Produce json
// @Success 200 {object} NodeResponse
// @Router /navspot [get]
func (s *Server) GetNavSpot(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.respond(s.tree.NavSpot()))
}

// GetNode godoc
// @Summary GetNode navigates to the node at path and returns it.
// @Description The nav spot moves to the node and its document starts loading in the background.
// @Tags Nodes
// @Produce json
// @Param path path string true "Slash separated node keys, e.g. esv/genesis"
// @Failure 404 {object} map[string]any
// @Success 200 {object} NodeResponse
// @Router /nodes/{path} [get]
func (s *Server) GetNode(c *gin.Context) {
	keys := keysOf(c.Param("path"))
	if len(keys) == 0 {
		s.tree.SetNavSpot(s.tree.Root())
		c.IndentedJSON(http.StatusOK, s.respond(s.tree.Root()))
		return
	}
	n, err := s.tree.Navigate(c.Request.Context(), tree.Destination{Root: s.tree.Root(), Path: tree.PathTo(keys...)}, true)
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.respond(n))
}

// PostNavigate godoc
// @Summary PostNavigate moves the nav spot by query or by path.
// @Tags Navigation
// @Accept json
// @Produce json
// @Param request body NavigateRequest true "Query or path"
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Success 200 {object} NodeResponse
// @Router /navigate [post]
func (s *Server) PostNavigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	from := s.tree.NavSpot()

	var dest tree.Destination
	switch {
	case req.Query != "":
		d, err := s.parser.Parse(req.Query, s.tree.Ancestry(from))
		if errors.Is(err, navexpr.ErrEmptyQuery) {
			c.IndentedJSON(http.StatusOK, s.respond(from))
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		dest = d
	case req.Path != nil:
		p, err := tree.ParsePath(req.Path)
		if err != nil {
			fail(c, err)
			return
		}
		dest = tree.Destination{Root: s.tree.Root(), Path: p}
	default:
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "query or path is required"})
		return
	}

	n, err := s.tree.Navigate(c.Request.Context(), dest, true)
	if err != nil {
		fail(c, err)
		return
	}
	r := s.respond(n)
	if n == from {
		r.Message = alreadyThere
	}
	c.IndentedJSON(http.StatusOK, r)
}

// PostLoad godoc
// @Summary PostLoad resolves the node at path and waits for its document to load.
// @Description The nav spot does not move.
// @Tags Nodes
// @Produce json
// @Param path path string true "Slash separated node keys"
// @Failure 404 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Success 200 {object} NodeResponse
// @Router /load/{path} [post]
func (s *Server) PostLoad(c *gin.Context) {
	n, err := s.resolve(c.Request.Context(), keysOf(c.Param("path")))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.tree.Load(c.Request.Context(), n); err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.respond(n))
}

// PutNode godoc
// @Summary PutNode merges a document into the node at path.
// @Description The document is materialized into a subtree and grafted over the node, merging content and children.
// @Tags Nodes
// @Accept json
// @Produce json
// @Param path path string true "Slash separated node keys, the last one is created if missing"
// @Param document body map[string]any true "Document to merge"
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Success 200 {object} NodeResponse
// @Router /nodes/{path} [put]
func (s *Server) PutNode(c *gin.Context) {
	keys := keysOf(c.Param("path"))
	if len(keys) == 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "can't merge over the root"})
		return
	}
	var doc doctree.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("invalid document: %v", err)})
		return
	}
	parent, err := s.resolve(c.Request.Context(), keys[:len(keys)-1])
	if err != nil {
		fail(c, err)
		return
	}
	n, err := s.tree.Merge(parent, keys[len(keys)-1], doc)
	if err != nil {
		fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.respond(n))
}
