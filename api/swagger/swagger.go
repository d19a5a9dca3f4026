package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Semesterplan API",
        "description": "Semester plan management: appointment generation and topic segmentation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Plans", "description": "Plan lifecycle and appointment generation"},
        {"name": "Topics", "description": "Topic segments over lesson appointments"},
        {"name": "Appointments", "description": "Dated appointments of a plan"},
        {"name": "Templates", "description": "Calendar exception templates"},
        {"name": "Catalog", "description": "Areas, classes, subjects, semesters"}
    ],
    "paths": {
        "/plans": {
            "get": {
                "tags": ["Plans"],
                "summary": "List finished plans",
                "parameters": [
                    {"name": "temporal", "in": "query", "type": "string", "enum": ["current", "past", "future"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "area", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plans"],
                "summary": "Create a draft plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/draft": {
            "get": {
                "tags": ["Plans"],
                "summary": "Get the unfinished draft plan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No draft"}
                }
            }
        },
        "/plans/{id}": {
            "get": {
                "tags": ["Plans"],
                "summary": "Get plan detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Plans"],
                "summary": "Update a plan and its weekly pattern",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plans"],
                "summary": "Delete a draft plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Plan is finished"}
                }
            }
        },
        "/plans/{id}/finish": {
            "post": {
                "tags": ["Plans"],
                "summary": "Finish a draft plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already finished"}
                }
            }
        },
        "/plans/{id}/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments of one plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/appointments/generate": {
            "post": {
                "tags": ["Plans"],
                "summary": "Generate lesson appointments from a template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateAppointmentsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already generated"}
                }
            }
        },
        "/plans/{id}/topics": {
            "get": {
                "tags": ["Topics"],
                "summary": "Segment view of one plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/topics/count": {
            "get": {
                "tags": ["Topics"],
                "summary": "Count distinct topics of one plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List templates selectable for a plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointments": {
            "get": {
                "tags": ["Appointments"],
                "summary": "List appointments",
                "parameters": [
                    {"name": "plan", "in": "query", "type": "string"},
                    {"name": "area", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointments"],
                "summary": "Create a single appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot taken"}
                }
            }
        },
        "/topics": {
            "get": {
                "tags": ["Topics"],
                "summary": "List all topics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/overview": {
            "get": {
                "tags": ["Topics"],
                "summary": "Segment overview across all lesson appointments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/rename": {
            "post": {
                "tags": ["Topics"],
                "summary": "Rename a topic within a scope",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenameTopicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/shorten": {
            "post": {
                "tags": ["Topics"],
                "summary": "Shorten a topic block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShortenTopicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/move": {
            "post": {
                "tags": ["Topics"],
                "summary": "Swap two topic segments in the calendar",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveTopicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/topics/append": {
            "post": {
                "tags": ["Topics"],
                "summary": "Assign a topic to trailing undefined lessons",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AppendTopicRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates/{id}/exceptions": {
            "get": {
                "tags": ["Templates"],
                "summary": "List a template's calendar exceptions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/areas": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List areas",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/areas/{slug}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one area by id or route name",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/areas/{slug}/classes": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List classes of one area",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timespans": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List semesters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LessonInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "week_day": {"type": "integer", "minimum": 0, "maximum": 5},
                "start_time": {"type": "string", "example": "08:30"},
                "end_time": {"type": "string", "example": "10:00"}
            },
            "required": ["week_day", "start_time", "end_time"]
        },
        "CreatePlanRequest": {
            "type": "object",
            "properties": {
                "time_span_id": {"type": "string"},
                "area_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/LessonInput"}}
            },
            "required": ["time_span_id", "area_id", "class_id", "subject_id", "lessons"]
        },
        "UpdatePlanRequest": {
            "type": "object",
            "properties": {
                "time_span_id": {"type": "string"},
                "area_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/LessonInput"}}
            },
            "required": ["time_span_id", "area_id", "class_id", "subject_id", "lessons"]
        },
        "GenerateAppointmentsRequest": {
            "type": "object",
            "properties": {
                "template_id": {"type": "string", "description": "Template id or \"empty\""}
            },
            "required": ["template_id"]
        },
        "CreateAppointmentRequest": {
            "type": "object",
            "properties": {
                "plan_id": {"type": "string"},
                "type": {"type": "string", "enum": ["lesson", "event", "excursion"]},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "topic_id": {"type": "string"},
                "topic_name": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"}
            },
            "required": ["plan_id", "type", "start", "end"]
        },
        "TopicSegment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "topic_id": {"type": "string"},
                "name": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "duration": {"type": "integer"}
            }
        },
        "RenameTopicRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "scope": {"$ref": "#/definitions/RenameScope"}
            },
            "required": ["name", "scope"]
        },
        "RenameScope": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["all", "plan", "block"]},
                "plan_id": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"}
            },
            "required": ["type"]
        },
        "ShortenTopicRequest": {
            "type": "object",
            "properties": {
                "topic_id": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "amount": {"type": "integer", "description": "Negative count of appointments to split off"},
                "new_name": {"type": "string"}
            },
            "required": ["topic_id", "start", "end", "amount"]
        },
        "SegmentRef": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"}
            },
            "required": ["id", "start", "end"]
        },
        "MoveTopicRequest": {
            "type": "object",
            "properties": {
                "from": {"$ref": "#/definitions/SegmentRef"},
                "to": {"$ref": "#/definitions/SegmentRef"}
            },
            "required": ["from", "to"]
        },
        "AppendTopicRequest": {
            "type": "object",
            "properties": {
                "plan_id": {"type": "string"},
                "topic_id": {"type": "string"},
                "name": {"type": "string"},
                "duration": {"type": "integer", "minimum": 1},
                "start": {"type": "string", "format": "date-time"}
            },
            "required": ["plan_id", "duration", "start"]
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
