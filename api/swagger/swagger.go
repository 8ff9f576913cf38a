package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PsycoAgenda API",
        "description": "Patient and session scheduling backend for a psychology practice",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Pacientes", "description": "Patient roster"},
        {"name": "Sesiones", "description": "Therapy session agenda"},
        {"name": "Estadisticas", "description": "Practice statistics"},
        {"name": "Auth", "description": "Authentication"},
        {"name": "Reportes", "description": "Agenda exports"}
    ],
    "paths": {
        "/": {
            "get": {
                "summary": "Welcome probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
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
        "/pacientes": {
            "get": {
                "tags": ["Pacientes"],
                "summary": "List patients",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Paciente"}}}
                }
            },
            "post": {
                "tags": ["Pacientes"],
                "summary": "Create patient",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePacienteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Paciente"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/pacientes/{id}": {
            "delete": {
                "tags": ["Pacientes"],
                "summary": "Delete patient",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Detail"}},
                    "409": {"description": "Patient has sessions", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/sesiones": {
            "get": {
                "tags": ["Sesiones"],
                "summary": "List sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Sesion"}}}
                }
            },
            "post": {
                "tags": ["Sesiones"],
                "summary": "Create session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SesionInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Sesion"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/sesiones/{id}": {
            "put": {
                "tags": ["Sesiones"],
                "summary": "Update session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SesionInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Sesion"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Detail"}}
                }
            },
            "delete": {
                "tags": ["Sesiones"],
                "summary": "Delete session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/estadisticas": {
            "get": {
                "tags": ["Estadisticas"],
                "summary": "Practice statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Estadisticas"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/reportes": {
            "post": {
                "tags": ["Reportes"],
                "summary": "Queue an agenda export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnqueueReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/reportes/{id}": {
            "get": {
                "tags": ["Reportes"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        },
        "/reportes/{id}/download": {
            "get": {
                "tags": ["Reportes"],
                "summary": "Download a finished report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/Detail"}}
                }
            }
        }
    },
    "definitions": {
        "Paciente": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nombre": {"type": "string"},
                "email": {"type": "string"},
                "telefono": {"type": "string"}
            }
        },
        "CreatePacienteRequest": {
            "type": "object",
            "required": ["nombre"],
            "properties": {
                "nombre": {"type": "string"},
                "email": {"type": "string"},
                "telefono": {"type": "string"}
            }
        },
        "Sesion": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "paciente_id": {"type": "integer"},
                "fecha": {"type": "string"},
                "asistencia": {"type": "string", "enum": ["pendiente", "asistio", "no_asistio", "cancelada"]},
                "pago": {"type": "string", "enum": ["pendiente", "pagado", "no_aplica"]},
                "asistio": {"type": "boolean"},
                "pago_realizado": {"type": "boolean"},
                "monto": {"type": "number"},
                "notas": {"type": "string"}
            }
        },
        "SesionInput": {
            "type": "object",
            "properties": {
                "paciente_id": {"type": "integer"},
                "fecha": {"type": "string"},
                "asistencia": {"type": "string"},
                "pago": {"type": "string"},
                "asistio": {"type": "boolean"},
                "pago_realizado": {"type": "boolean"},
                "monto": {"type": "number"},
                "notas": {"type": "string"}
            }
        },
        "Estadisticas": {
            "type": "object",
            "properties": {
                "total_pacientes": {"type": "integer"},
                "total_sesiones": {"type": "integer"},
                "asistencia": {"type": "string"},
                "pagos": {"type": "string"},
                "monto_total": {"type": "number"},
                "pagos_pendientes": {"type": "integer"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["psicologo", "paciente"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "EnqueueReportRequest": {
            "type": "object",
            "required": ["formato"],
            "properties": {
                "formato": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "Detail": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"}
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
