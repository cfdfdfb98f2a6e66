// Package docs registers the OpenAPI document served by the swagger UI.
// Regenerate with: swag init -g main.go
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
        "/jobs": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Browse open jobs",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "location", "in": "query"},
                    {"type": "string", "name": "company", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JobPageResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Create a job posting",
                "parameters": [{"name": "job", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateJobRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.JobResponse"}},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/jobs/facets": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Distinct locations and companies of open jobs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "List the recruiter's own jobs",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/jobs/{id}": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Get a job posting",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Update a job posting",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "job", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateJobRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Jobs"],
                "summary": "Delete a job posting",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}
            }
        },
        "/jobs/{id}/apply": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["Applications"],
                "summary": "Apply to a job with the profile resume",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "cover_letter", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already applied or job closed"}}
            }
        },
        "/applications/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Applications"],
                "summary": "Move an application through its lifecycle",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateApplicationStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Invalid transition"}}
            }
        },
        "/candidates/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Candidates"],
                "summary": "Get the caller's profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Candidates"],
                "summary": "Create or update the caller's profile",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "dto.CreateJobRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "requirements": {"type": "string"},
                "location": {"type": "string"},
                "company_name": {"type": "string"},
                "salary_range": {"type": "string"},
                "status": {"type": "string", "enum": ["Open", "Closed"]}
            }
        },
        "dto.UpdateJobRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "requirements": {"type": "string"},
                "location": {"type": "string"},
                "company_name": {"type": "string"},
                "salary_range": {"type": "string"},
                "status": {"type": "string", "enum": ["Open", "Closed"]}
            }
        },
        "dto.JobResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "recruiter_id": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "string"},
                "applicant_count": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "dto.JobPageResponse": {
            "type": "object",
            "properties": {
                "jobs": {"type": "array", "items": {"$ref": "#/definitions/dto.JobResponse"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "dto.UpdateApplicationStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Pending", "Interview", "Hired", "Rejected", "Withdrawn"]},
                "scheduled_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "HR Portal API",
	Description:      "Job postings, candidate profiles and the application lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
