package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Meet API",
        "description": "Meeting availability and booking engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Token issuance"},
        {"name": "Availability", "description": "Bookable window computation"},
        {"name": "Meetings", "description": "Meeting booking"},
        {"name": "Slots", "description": "Recurring availability rules"},
        {"name": "TimeOff", "description": "One-off unavailable periods"},
        {"name": "Vacations", "description": "Organization-wide blackouts"},
        {"name": "Artifacts", "description": "Calendar file downloads"},
        {"name": "Exports", "description": "Agenda exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue an access token",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List bookable windows",
                "parameters": [
                    {"name": "admin_id", "in": "query", "type": "string"},
                    {"name": "meeting_type", "in": "query", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "viewer_tz", "in": "query", "type": "string"},
                    {"name": "min_duration", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Free windows ascending by start"}
                }
            }
        },
        "/api/v1/meetings": {
            "post": {
                "tags": ["Meetings"],
                "summary": "Book a meeting",
                "responses": {
                    "201": {"description": "Meeting booked"},
                    "400": {"description": "Outside availability, blocked or over quota"},
                    "409": {"description": "Collides with an existing meeting"}
                }
            }
        },
        "/api/v1/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List the admin's availability rules",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Slots"],
                "summary": "Create an availability rule",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Overlaps a sibling rule"}
                }
            }
        },
        "/api/v1/slots/{id}": {
            "put": {
                "tags": ["Slots"],
                "summary": "Update an availability rule",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Slots"],
                "summary": "Deactivate an availability rule",
                "responses": {"204": {"description": "Deactivated"}}
            }
        },
        "/api/v1/time-off": {
            "get": {
                "tags": ["TimeOff"],
                "summary": "List the admin's time off",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["TimeOff"],
                "summary": "Declare a time off period",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/v1/time-off/{id}": {
            "delete": {
                "tags": ["TimeOff"],
                "summary": "Remove a time off period",
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/api/v1/vacations": {
            "get": {
                "tags": ["Vacations"],
                "summary": "List active system vacations",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Vacations"],
                "summary": "Declare a system vacation",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/v1/vacations/{id}": {
            "delete": {
                "tags": ["Vacations"],
                "summary": "Remove a system vacation",
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/api/v1/artifacts/{token}": {
            "get": {
                "tags": ["Artifacts"],
                "summary": "Download a meeting calendar file",
                "responses": {
                    "200": {"description": "ICS payload"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/api/v1/meetings/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the upcoming meeting agenda",
                "responses": {"200": {"description": "Encoded agenda"}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
