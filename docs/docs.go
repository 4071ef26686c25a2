// Package docs registers the swagger document served at /swagger.
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
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Open a ledger account",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid username", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/users/me/cash": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Current cash balance",
                "responses": {
                    "200": {"description": "Cash balance", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/quote/{symbol}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Trading"],
                "summary": "Current quote for a symbol",
                "parameters": [
                    {"type": "string", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Current price", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Unknown symbol", "schema": {"$ref": "#/definitions/types.Response"}},
                    "504": {"description": "Quote source timed out", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/trades/buy": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trading"],
                "summary": "Buy shares at the current price",
                "parameters": [
                    {"type": "string", "description": "Client reference for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Executed", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid share count", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Unknown symbol", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Insufficient funds", "schema": {"$ref": "#/definitions/types.Response"}},
                    "504": {"description": "Quote source timed out", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/trades/sell": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trading"],
                "summary": "Sell shares at the current price",
                "parameters": [
                    {"type": "string", "description": "Client reference for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Executed", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Invalid share count", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Unknown symbol", "schema": {"$ref": "#/definitions/types.Response"}},
                    "409": {"description": "Not enough shares", "schema": {"$ref": "#/definitions/types.Response"}},
                    "504": {"description": "Quote source timed out", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/portfolio": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Portfolio valuation",
                "responses": {
                    "200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Unknown user", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/portfolio/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Transaction history",
                "responses": {
                    "200": {"description": "History", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/portfolio/profit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Realized profit",
                "responses": {
                    "200": {"description": "Realized profit", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"}
            }
        },
        "dto.TradeRequest": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "shares": {"type": "string"}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token issued by the identity provider.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Paper Trading Service",
	Description:      "Simulated stock trading against live quotes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
