// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/v1/articles": {
            "get": {
                "tags": ["admin"],
                "summary": "List articles",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "integer", "description": "offset", "name": "start", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "tags": ["admin"],
                "summary": "Create an article",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Create or update many articles",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/articles/{id}": {
            "get": {
                "tags": ["admin"],
                "summary": "Get an article",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Replace an article",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Delete an article with all variants",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/articles/{id}/history": {
            "get": {
                "tags": ["admin"],
                "summary": "Audit trail of an article",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/categories": {
            "get": {
                "tags": ["admin"],
                "summary": "List categories, optionally below a parent",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "parentId", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["admin"],
                "summary": "Create a category",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Create or update many categories",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/categories/{id}": {
            "get": {
                "tags": ["admin"],
                "summary": "Get a category",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Replace a category",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Delete a category with its subtree",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/payments/{paymentID}/rules": {
            "get": {
                "tags": ["admin"],
                "summary": "Risk rules of a payment method",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "paymentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Replace the risk rules of a payment method",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "paymentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/translations/{type}/{id}/{shopID}": {
            "get": {
                "tags": ["admin"],
                "summary": "Shop translation of a catalog object",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "description": "article, manufacturer, unit, property_set, property_group, property_option, configurator_group, configurator_option", "name": "type", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "shopID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["admin"],
                "summary": "Replace the translated fields",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "shopID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Remove the translation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "type", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "shopID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/storefront/listing": {
            "get": {
                "tags": ["storefront"],
                "summary": "Search products of a listing",
                "parameters": [
                    {"type": "string", "description": "category ids separated by |", "name": "category", "in": "query"},
                    {"type": "string", "description": "manufacturer ids separated by |", "name": "manufacturer", "in": "query"},
                    {"type": "string", "description": "release, popularity, name, name_desc, price, price_desc", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "page", "name": "p", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "n", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/storefront/listing/legacy": {
            "get": {
                "tags": ["storefront"],
                "summary": "Listing page in the legacy array format",
                "parameters": [
                    {"type": "string", "description": "category ids separated by |", "name": "category", "in": "query"},
                    {"type": "string", "description": "manufacturer ids separated by |", "name": "manufacturer", "in": "query"},
                    {"type": "string", "description": "release, popularity, name, name_desc, price, price_desc", "name": "sort", "in": "query"},
                    {"type": "integer", "description": "page", "name": "p", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "n", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/storefront/products/{number}": {
            "get": {
                "tags": ["storefront"],
                "summary": "Priced list product of a variant",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/storefront/products/{number}/legacy": {
            "get": {
                "tags": ["storefront"],
                "summary": "Detail page product in the legacy array format",
                "parameters": [{"type": "string", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/storefront/categories/{id}/legacy": {
            "get": {
                "tags": ["storefront"],
                "summary": "Category in the legacy array format",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/storefront/payments/{paymentID}/risk": {
            "post": {
                "tags": ["storefront"],
                "summary": "Decide whether a payment method is blocked for a checkout",
                "parameters": [{"type": "integer", "name": "paymentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/storefront/media/{path}": {
            "get": {
                "tags": ["storefront"],
                "summary": "Public URL of a media file",
                "parameters": [{"type": "string", "name": "path", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront Service API",
	Description:      "Storefront search, pricing and catalog administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
