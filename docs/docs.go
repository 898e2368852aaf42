// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}
                }
            }
        },
        "/logout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}}
                }
            }
        },
        "/auth/google": {
            "get": {
                "tags": ["auth"],
                "summary": "Start Google sign-in",
                "responses": {
                    "302": {"description": "Found"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/google/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "Google sign-in callback",
                "parameters": [
                    {"type": "string", "description": "OAuth state", "name": "state", "in": "query", "required": true},
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        },
        "/places": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "List the caller's listings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.listingResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Replace a listing",
                "parameters": [
                    {"description": "Listing with _id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.listingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Create a listing",
                "parameters": [
                    {"description": "Listing fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.listingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.createdResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Delete a listing",
                "parameters": [
                    {"description": "Listing id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.deleteListingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/places/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Get a listing",
                "parameters": [
                    {"type": "string", "description": "Listing id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/allPlaces": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "List every listing",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.listingResponse"}}}
                }
            }
        },
        "/bookPlace": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book a listing",
                "parameters": [
                    {"description": "Booking details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.bookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.createdResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/bookings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "List the caller's bookings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.bookingResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Upload photos",
                "parameters": [
                    {"type": "file", "description": "One or more image files", "name": "photos", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/deletePhoto": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete a stored photo",
                "parameters": [
                    {"description": "Photo reference or public id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.deletePhotoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.successResponse": {
            "type": "object",
            "properties": {"success": {"type": "string"}}
        },
        "handler.createdResponse": {
            "type": "object",
            "properties": {"_id": {"type": "string"}, "success": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"name": {"type": "string"}, "password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"_id": {"type": "string"}, "name": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {"success": {"type": "string"}, "user": {"$ref": "#/definitions/handler.userResponse"}}
        },
        "handler.listingRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "_id": {"type": "string"},
                "address": {"type": "string"},
                "amenities": {"type": "array", "items": {"type": "string"}},
                "checkIn": {"type": "string"},
                "checkOut": {"type": "string"},
                "description": {"type": "string"},
                "emenities": {"type": "array", "items": {"type": "string"}},
                "extraInfo": {"type": "string"},
                "maxGuests": {"type": "integer", "maximum": 1000},
                "name": {"type": "string"},
                "owner": {"type": "string"},
                "photos": {"type": "array", "items": {"type": "string"}},
                "price": {"type": "number"}
            }
        },
        "handler.listingResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "address": {"type": "string"},
                "amenities": {"type": "array", "items": {"type": "string"}},
                "checkIn": {"type": "string"},
                "checkOut": {"type": "string"},
                "description": {"type": "string"},
                "extraInfo": {"type": "string"},
                "maxGuests": {"type": "integer"},
                "name": {"type": "string"},
                "owner": {"type": "string"},
                "photos": {"type": "array", "items": {"type": "string"}},
                "price": {"type": "number"}
            }
        },
        "handler.deleteListingRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "string"}}
        },
        "handler.bookingRequest": {
            "type": "object",
            "required": ["placeId"],
            "properties": {
                "checkIn": {"type": "string"},
                "checkOut": {"type": "string"},
                "guests": {"type": "integer", "maximum": 1000},
                "mobileNo": {"type": "string"},
                "name": {"type": "string"},
                "placeId": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "handler.bookingResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "checkIn": {"type": "string"},
                "checkOut": {"type": "string"},
                "guests": {"type": "integer"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "place": {"$ref": "#/definitions/handler.listingResponse"},
                "price": {"type": "number"},
                "userId": {"type": "string"}
            }
        },
        "handler.deletePhotoRequest": {
            "type": "object",
            "required": ["public_id"],
            "properties": {"public_id": {"type": "string"}}
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "status": {"type": "string"}}
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}},
                "status": {"type": "string"}
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
	Title:            "Rental API",
	Description:      "Vacation-rental backend: accounts, listings, bookings and photos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
