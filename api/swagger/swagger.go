package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Learning API",
        "description": "Course sales and batch management backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Registration, login and sessions"},
        {"name": "Courses", "description": "Catalog browsing and recommendations"},
        {"name": "Cart", "description": "Shopping cart and purchases"},
        {"name": "Batches", "description": "Batch creation and student assignment"},
        {"name": "Lessons", "description": "Per-batch lesson activation"},
        {"name": "Schedule", "description": "Course calendars and meeting links"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/register/student": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or phone already registered"}
                }
            }
        },
        "/auth/register/instructor": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register an instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or phone already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "New token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the active refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Auth"],
                "summary": "Update current user profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List the course catalog with enrollment counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Course detail",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/courses/recommended": {
            "get": {
                "tags": ["Courses"],
                "summary": "Courses the student has not purchased",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Recommendations with a human-readable message", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/purchased-and-recommended": {
            "get": {
                "tags": ["Courses"],
                "summary": "Catalog split into purchased and recommended partitions",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cart": {
            "get": {
                "tags": ["Cart"],
                "summary": "View cart contents",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cart/{courseId}": {
            "post": {
                "tags": ["Cart"],
                "summary": "Add a course to the cart",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Added", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already in cart or already purchased"}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Remove a course from the cart",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Not in cart"}
                }
            }
        },
        "/cart/{courseId}/purchase": {
            "post": {
                "tags": ["Cart"],
                "summary": "Purchase a course from the cart",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Purchased", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not in cart"},
                    "409": {"description": "Already purchased"}
                }
            }
        },
        "/purchases": {
            "get": {
                "tags": ["Cart"],
                "summary": "List purchased courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches": {
            "post": {
                "tags": ["Batches"],
                "summary": "Create a batch for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Instructor does not own the course"}
                }
            }
        },
        "/batches/assign": {
            "post": {
                "tags": ["Batches"],
                "summary": "Assign students to a batch",
                "description": "Each student lands in one bucket: assigned, moved or skipped.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Assignment outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/update": {
            "put": {
                "tags": ["Batches"],
                "summary": "Repair student assignments for a batch",
                "description": "Keeps one assignment row per student, moving the surviving row to the target batch and deleting duplicates.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignBatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Repair outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/batches": {
            "get": {
                "tags": ["Batches"],
                "summary": "List batches of a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/roster": {
            "get": {
                "tags": ["Batches"],
                "summary": "Roster of purchasers with batch status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/roster/export": {
            "get": {
                "tags": ["Batches"],
                "summary": "Export the roster as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "403": {"description": "Exports disabled"}
                }
            }
        },
        "/lessons/toggle": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Toggle a lesson's activation for a batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "New activation state", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Lesson belongs to another course"}
                }
            }
        },
        "/batches/{batchId}/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Lessons of the batch's course with activation flags",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendars": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Create a calendar entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendars/{calendarId}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Update a calendar entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "calendarId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Delete a calendar entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "calendarId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Calendar entry not found"}
                }
            }
        },
        "/courses/{courseId}/calendar": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Calendar entries of a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Schedule projected for the calling student's batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK, possibly empty", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student has no batch for this course"}
                }
            }
        },
        "/courses/{courseId}/meeting": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Meeting link for the calling student's batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No meeting link for the batch"}
                }
            }
        },
        "/meetings": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Create a meeting link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MeetingLinkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Schedule"],
                "summary": "Meeting links owned by the calling instructor",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/meetings/{meetingId}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Update a meeting link URL",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "meetingId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMeetingLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the owner"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Delete a meeting link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "meetingId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not the owner"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "CreateBatchRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "instructor_id": {"type": "integer"},
                "batch_name": {"type": "string"},
                "num_students": {"type": "integer"},
                "timing": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"}
            }
        },
        "AssignBatchRequest": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "integer"},
                "student_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "ToggleLessonRequest": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "integer"},
                "lesson_id": {"type": "integer"}
            }
        },
        "CalendarRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "batch_id": {"type": "integer"},
                "lesson_id": {"type": "integer"},
                "select_date": {"type": "string", "format": "date-time"},
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "MeetingLinkRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "batch_id": {"type": "integer"},
                "meeting_url": {"type": "string"}
            }
        },
        "UpdateMeetingLinkRequest": {
            "type": "object",
            "properties": {
                "meeting_url": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
