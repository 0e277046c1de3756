package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gator Scheduler API",
        "description": "Weekly class schedule builder: catalog search, section selection, custom appointments and calendar projection",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Course catalog search"},
        {"name": "Planner", "description": "Selected course store"},
        {"name": "Appointments", "description": "Custom appointment store"},
        {"name": "Calendar", "description": "Weekly projection and exports"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Search the course catalog by code prefix",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner": {
            "get": {
                "tags": ["Planner"],
                "summary": "List the planner's selected courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/toggle": {
            "post": {
                "tags": ["Planner"],
                "summary": "Toggle a section selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleSectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request"},
                    "404": {"description": "Course or section not found"}
                }
            }
        },
        "/planner/courses/{code}": {
            "delete": {
                "tags": ["Planner"],
                "summary": "Remove a course regardless of selection state",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/credits": {
            "get": {
                "tags": ["Planner"],
                "summary": "Total credits of the planner's selections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List custom appointments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Create a custom appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCustomAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid appointment"}
                }
            }
        },
        "/planner/appointments/{id}": {
            "delete": {
                "tags": ["Appointments"],
                "summary": "Delete a custom appointment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/planner/calendar": {
            "get": {
                "tags": ["Calendar"],
                "summary": "The planner's calendar projected onto the current week",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/calendar/export": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Download the schedule as ics, csv or pdf",
                "produces": ["text/calendar", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["ics", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unsupported format"}
                }
            }
        }
    },
    "definitions": {
        "ToggleSectionRequest": {
            "type": "object",
            "required": ["courseCode", "classNumber"],
            "properties": {
                "courseCode": {"type": "string"},
                "classNumber": {"type": "string"}
            }
        },
        "CreateCustomAppointmentRequest": {
            "type": "object",
            "required": ["name", "meetDays", "meetTimeBegin", "meetTimeEnd", "color"],
            "properties": {
                "name": {"type": "string"},
                "meetDays": {"type": "array", "items": {"type": "string", "enum": ["M", "T", "W", "R", "F"]}},
                "meetTimeBegin": {"type": "string", "example": "14:00"},
                "meetTimeEnd": {"type": "string", "example": "15:30"},
                "color": {"type": "string", "example": "#336699"},
                "meetBuilding": {"type": "string"},
                "meetRoom": {"type": "string"},
                "credits": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
