// Package docs holds the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/admin/users/{id}/role": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Set a user's role",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "New role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.setRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "List questions",
                "parameters": [
                    {"type": "string", "description": "Exact tag", "name": "tag", "in": "query"},
                    {"type": "string", "description": "Case-insensitive text in title or description", "name": "search", "in": "query"},
                    {"type": "integer", "description": "1-based page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {"X-Total-Count": {"type": "integer", "description": "Total matching questions"}},
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Question"}}
                    }
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Ask a question",
                "parameters": [
                    {"description": "Question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/questions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Get a question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Delete a question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Edit a question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateQuestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Answer a question",
                "parameters": [
                    {"description": "Answer", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createAnswerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Answer"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{questionId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "List answers of a question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "questionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Answer"}}}
                }
            }
        },
        "/answers/single/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Get an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Answer"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Delete an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Edit an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true},
                    {"description": "New text", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Answer"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{id}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Comment on an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true},
                    {"description": "Comment", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.commentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Comment"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{answerId}/comments/{commentId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Delete a comment",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "answerId", "in": "path", "required": true},
                    {"type": "string", "description": "Comment ID", "name": "commentId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{id}/vote": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Vote on an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true},
                    {"description": "up or down", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.voteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Answer"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/answers/{id}/accept": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["answers"],
                "summary": "Accept an answer",
                "parameters": [
                    {"type": "string", "description": "Answer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.acceptResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Recent notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Notification"}}}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Unread notification count",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.unreadCountResponse"}}
                }
            }
        },
        "/notifications/read-all": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark every notification read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.markAllReadResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark a notification read",
                "parameters": [
                    {"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Notification"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Question": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "author": {"$ref": "#/definitions/domain.UserSummary"},
                "views": {"type": "integer"},
                "acceptedAnswer": {"type": "string"},
                "answersCount": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Comment": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "author": {"$ref": "#/definitions/domain.UserSummary"},
                "text": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Answer": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "question": {"type": "string"},
                "author": {"$ref": "#/definitions/domain.UserSummary"},
                "text": {"type": "string"},
                "votes": {"type": "integer"},
                "voters": {"type": "object", "additionalProperties": {"type": "string", "enum": ["up", "down"]}},
                "isAccepted": {"type": "boolean"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Notification": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "user": {"type": "string"},
                "type": {"type": "string", "enum": ["answer", "comment", "mention"]},
                "message": {"type": "string"},
                "link": {"type": "string"},
                "read": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "username": {"type": "string", "maxLength": 30},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "firstName": {"type": "string", "maxLength": 50},
                "lastName": {"type": "string", "maxLength": 50}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.setRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {"role": {"type": "string", "enum": ["admin", "user"]}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.createQuestionRequest": {
            "type": "object",
            "required": ["description", "title"],
            "properties": {
                "title": {"type": "string", "maxLength": 300},
                "description": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.updateQuestionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 300},
                "description": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.createAnswerRequest": {
            "type": "object",
            "required": ["questionId", "text"],
            "properties": {
                "questionId": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "handler.updateAnswerRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string"}}
        },
        "handler.commentRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {"text": {"type": "string", "maxLength": 2000}}
        },
        "handler.voteRequest": {
            "type": "object",
            "properties": {"type": {"type": "string", "enum": ["up", "down"]}}
        },
        "handler.acceptResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/domain.Answer"}}
            }
        },
        "handler.unreadCountResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer"}}
        },
        "handler.markAllReadResponse": {
            "type": "object",
            "properties": {"updated": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "\"Bearer <token>\"; the token cookie set by login is accepted too.",
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Q&A Board API",
	Description:      "Questions, answers, comments, votes and notifications for a developer community.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
