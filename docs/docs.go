// Package docs registers the OpenAPI description served at /swagger. It is
// regenerated with `swag init -g cmd/server/main.go`.
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
        "/api/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Back-office login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/wizard": {
            "get": {
                "tags": ["Wizard"],
                "summary": "Current wizard state",
                "parameters": [{"type": "string", "name": "fragment", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/wizard/answers": {
            "patch": {
                "tags": ["Wizard"],
                "summary": "Update answers",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/api/wizard/next": {
            "post": {"tags": ["Wizard"], "summary": "Next step", "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/wizard/previous": {
            "post": {"tags": ["Wizard"], "summary": "Previous step", "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/report": {
            "post": {"tags": ["Wizard"], "summary": "Get my report", "responses": {"202": {"description": "Accepted"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/wizard/rating": {
            "post": {"tags": ["Wizard"], "summary": "Rate the report", "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/reset": {
            "post": {"tags": ["Wizard"], "summary": "Start over", "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/report.pdf": {
            "get": {"tags": ["Wizard"], "summary": "Download the report as PDF", "produces": ["application/pdf"], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/api/services": {"get": {"tags": ["Services"], "summary": "List advisory services", "responses": {"200": {"description": "OK"}}}},
        "/api/team": {"get": {"tags": ["Team"], "summary": "List team members", "responses": {"200": {"description": "OK"}}}},
        "/api/blog": {"get": {"tags": ["Blog"], "summary": "List blog posts", "responses": {"200": {"description": "OK"}}}},
        "/api/blog/slug/{slug}": {
            "get": {
                "tags": ["Blog"],
                "summary": "Read a blog post",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/portfolio": {"get": {"tags": ["Portfolio"], "summary": "List portfolio case studies", "responses": {"200": {"description": "OK"}}}},
        "/api/newsletter/subscribe": {"post": {"tags": ["Newsletter"], "summary": "Subscribe to the newsletter", "responses": {"200": {"description": "OK"}}}},
        "/api/contact": {"post": {"tags": ["Contact"], "summary": "Submit an enquiry", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "YD Advisory API",
	Description:      "Business valuation wizard and site content for YD Advisory.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
