// Package docs registers the swagger spec of the doctree REST API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/navspot": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Navigation"],
                "summary": "GetNavSpot returns the current navigation position.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.NodeResponse"}}
                }
            }
        },
        "/navigate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Navigation"],
                "summary": "PostNavigate moves the nav spot by query or by path.",
                "parameters": [
                    {
                        "description": "Query or path",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/restapi.NavigateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.NodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/nodes/{path}": {
            "get": {
                "description": "The nav spot moves to the node and its document starts loading in the background.",
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "GetNode navigates to the node at path and returns it.",
                "parameters": [
                    {"type": "string", "description": "Slash separated node keys, e.g. esv/genesis", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.NodeResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            },
            "put": {
                "description": "The document is materialized into a subtree and grafted over the node, merging content and children.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "PutNode merges a document into the node at path.",
                "parameters": [
                    {"type": "string", "description": "Slash separated node keys, the last one is created if missing", "name": "path", "in": "path", "required": true},
                    {
                        "description": "Document to merge",
                        "name": "document",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "additionalProperties": {}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.NodeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        },
        "/load/{path}": {
            "post": {
                "description": "The nav spot does not move.",
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "PostLoad resolves the node at path and waits for its document to load.",
                "parameters": [
                    {"type": "string", "description": "Slash separated node keys", "name": "path", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/restapi.NodeResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {}}}
                }
            }
        }
    },
    "definitions": {
        "restapi.NavigateRequest": {
            "type": "object",
            "properties": {
                "path": {"type": "object", "additionalProperties": {}},
                "query": {"type": "string"}
            }
        },
        "restapi.NodeResponse": {
            "type": "object",
            "properties": {
                "location": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"},
                "node": {"$ref": "#/definitions/tree.View"}
            }
        },
        "tree.View": {
            "type": "object",
            "properties": {
                "childCount": {"type": "integer"},
                "children": {"type": "array", "items": {"type": "string"}},
                "content": {},
                "fullyLoaded": {"type": "boolean"},
                "key": {"type": "string"},
                "level": {"type": "integer"},
                "path": {"type": "array", "items": {"type": "string"}},
                "properties": {"type": "object", "additionalProperties": {}}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and the API token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "doctree REST API",
	Description:      "Lazily loaded document tree navigation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
