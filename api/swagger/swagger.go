package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Performance Portal API",
        "description": "Student access-code login, generated session history, grading summaries and report downloads",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Student and administrator login"},
        {"name": "Students", "description": "Student directory"},
        {"name": "Sessions", "description": "Generated session history and administrator edits"},
        {"name": "Reports", "description": "PDF and CSV downloads"},
        {"name": "Dashboard", "description": "Administrator overview"}
    ],
    "paths": {
        "/auth/student/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Student login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Administrator login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Students"],
                "summary": "Current student profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List own sessions",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Session data expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me/sessions/{sessionId}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get own session detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/sessions/export.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export own session history",
                "produces": ["text/csv"],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/me/sessions/{sessionId}/report.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download own session report",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Admin dashboard summary",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List active students",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already in use", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Update student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Soft delete student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/{id}/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List a student's sessions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Generate session history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}/sessions/export.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export a student's session history",
                "produces": ["text/csv"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/students/{id}/sessions/{sessionId}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get a student's session detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}/sessions/{sessionId}/report.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a student's session report",
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/students/{id}/sessions/{sessionId}/academic/{assessment}/{index}": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Replace one assessment score",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"},
                    {"name": "assessment", "in": "path", "required": true, "type": "string", "enum": ["quizzes", "exams", "presentations", "assignments"]},
                    {"name": "index", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreUpdateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}/sessions/{sessionId}/academic": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Update academic figures",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AcademicUpdateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}/sessions/{sessionId}/skills": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Update skill ratings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}/sessions/{sessionId}/participation": {
            "patch": {
                "tags": ["Sessions"],
                "summary": "Update participation figures",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ParticipationUpdateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "StudentLoginRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {"code": {"type": "string"}}
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {"password": {"type": "string"}}
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["name", "code", "program_variant"],
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "program_variant": {"type": "string", "enum": ["individual", "group"]},
                "profile_picture": {"type": "string"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "program_variant": {"type": "string", "enum": ["individual", "group"]},
                "profile_picture": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "ScoreUpdateRequest": {
            "type": "object",
            "required": ["score"],
            "properties": {"score": {"type": "integer", "minimum": 0, "maximum": 100}}
        },
        "AcademicUpdateRequest": {
            "type": "object",
            "properties": {
                "gpa": {"type": "number", "minimum": 0, "maximum": 4},
                "project_performance": {"type": "integer", "minimum": 0, "maximum": 100},
                "percentage_score": {"type": "integer", "minimum": 0, "maximum": 100}
            }
        },
        "ParticipationUpdateRequest": {
            "type": "object",
            "properties": {
                "class_attendance": {"type": "integer", "minimum": 0, "maximum": 100},
                "discussion_participation": {"type": "integer", "minimum": 0, "maximum": 100},
                "group_work": {"type": "integer", "minimum": 0, "maximum": 100},
                "overall_engagement": {"type": "integer", "minimum": 0, "maximum": 100}
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
