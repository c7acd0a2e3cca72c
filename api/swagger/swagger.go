package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Idea Lab API",
        "description": "Project tracking and showcase backend for the campus Idea Lab",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Google sign-in and session"},
        {"name": "Projects", "description": "Project lifecycle, review, and export"},
        {"name": "Users", "description": "Member roster and role management"},
        {"name": "Overlords", "description": "External email allowlist"},
        {"name": "Achievements", "description": "Lab achievement wall"},
        {"name": "Showcase", "description": "Public project showcase"},
        {"name": "Admin Logs", "description": "Administrative audit trail"}
    ],
    "paths": {
        "/auth/login": {
            "get": {
                "tags": ["Auth"],
                "summary": "Start Google sign-in",
                "responses": {
                    "307": {"description": "Redirect to the consent screen"}
                }
            }
        },
        "/auth/callback": {
            "get": {
                "tags": ["Auth"],
                "summary": "OAuth callback",
                "parameters": [
                    {"name": "state", "in": "query", "type": "string", "required": true},
                    {"name": "code", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session cookie issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Rejected sign-in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No valid session"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Clear the session cookie",
                "responses": {
                    "204": {"description": "Signed out"}
                }
            }
        },
        "/projects": {
            "get": {
                "tags": ["Projects"],
                "summary": "List all projects (admin)",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["PARTIAL", "SUBMITTED"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Projects"],
                "summary": "Create project",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Only students create projects"}
                }
            }
        },
        "/projects/mine": {
            "get": {
                "tags": ["Projects"],
                "summary": "Projects led by the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/mine/{id}": {
            "get": {
                "tags": ["Projects"],
                "summary": "One of my projects",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or not yours"}
                }
            }
        },
        "/projects/assigned": {
            "get": {
                "tags": ["Projects"],
                "summary": "Projects assigned to the signed-in reviewer",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Reviewer role required"}
                }
            }
        },
        "/projects/{id}/complete": {
            "post": {
                "tags": ["Projects"],
                "summary": "Submit summary and photo",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "summary", "in": "formData", "type": "string", "required": true},
                    {"name": "photo", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "Submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or not yours"}
                }
            }
        },
        "/projects/{id}/summary": {
            "get": {
                "tags": ["Projects"],
                "summary": "Download the project summary PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF attachment"},
                    "404": {"description": "Not found or not yours"}
                }
            }
        },
        "/projects/{id}": {
            "patch": {
                "tags": ["Projects"],
                "summary": "Admin update",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminUpdateProjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Projects"],
                "summary": "Delete project",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found or not yours"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users (admin)",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string", "enum": ["STUDENT", "TEACHER", "ADMIN", "SUPER_ADMIN"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/me/profile": {
            "patch": {
                "tags": ["Users"],
                "summary": "Fill in profile fields (write-once)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Field already set"}
                }
            }
        },
        "/users/{id}/promote": {
            "post": {
                "tags": ["Users"],
                "summary": "Promote one role step",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already at the ladder top"}
                }
            }
        },
        "/users/{id}/demote": {
            "post": {
                "tags": ["Users"],
                "summary": "Demote one role step",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}/super-admin": {
            "post": {
                "tags": ["Users"],
                "summary": "Grant or revoke super-admin",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuperAdminRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Super-admin only"}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "User detail (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Cannot manage this role"}
                }
            }
        },
        "/overlords": {
            "get": {
                "tags": ["Overlords"],
                "summary": "List allowlisted emails",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Overlords"],
                "summary": "Allowlist an external email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOverlordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already allowlisted"}
                }
            }
        },
        "/overlords/{id}": {
            "delete": {
                "tags": ["Overlords"],
                "summary": "Remove from the allowlist",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/achievements": {
            "get": {
                "tags": ["Achievements"],
                "summary": "List achievements",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["STUDENT", "FACULTY"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Achievements"],
                "summary": "Post an achievement",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string", "required": true},
                    {"name": "type", "in": "formData", "type": "string", "required": true},
                    {"name": "image", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/achievements/{id}": {
            "delete": {
                "tags": ["Achievements"],
                "summary": "Delete achievement (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/showcase": {
            "get": {
                "tags": ["Showcase"],
                "summary": "Public showcase listing",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Showcase"],
                "summary": "Add a showcase entry (admin)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string", "required": true},
                    {"name": "github_link", "in": "formData", "type": "string", "required": true},
                    {"name": "image", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/showcase/{id}": {
            "delete": {
                "tags": ["Showcase"],
                "summary": "Remove a showcase entry (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/admin-logs": {
            "get": {
                "tags": ["Admin Logs"],
                "summary": "List audit entries (admin)",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "window", "in": "query", "type": "string", "enum": ["today", "7d", "30d"]},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin-logs/export": {
            "get": {
                "tags": ["Admin Logs"],
                "summary": "Export audit entries as CSV (admin)",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        }
    },
    "definitions": {
        "CreateProjectRequest": {
            "type": "object",
            "required": ["title", "team_members", "components"],
            "properties": {
                "title": {"type": "string"},
                "team_members": {"type": "array", "items": {"type": "string"}},
                "components": {"type": "string"},
                "assigned_teacher_id": {"type": "string"}
            }
        },
        "AdminUpdateProjectRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "components": {"type": "string"},
                "status": {"type": "string", "enum": ["PARTIAL", "SUBMITTED"]},
                "assigned_teacher_id": {"type": "string"},
                "assigned_admin_id": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "branch": {"type": "string"},
                "section": {"type": "string"},
                "batch": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "SuperAdminRequest": {
            "type": "object",
            "properties": {
                "grant": {"type": "boolean"}
            }
        },
        "CreateOverlordRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
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
