package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Puntualidad API",
        "description": "Intern attendance, justification tickets, and recovery hours",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Daily attendance marks and the intern board"},
        {"name": "Justifications", "description": "Justification tickets, review, and SLA"},
        {"name": "Recoveries", "description": "Recovery sessions and hour accrual"},
        {"name": "Schedules", "description": "Class-day assignments per intern"},
        {"name": "Punctuality", "description": "Daily summaries and alerts"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records for a date",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark an intern's attendance",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/attendance/board": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Daily punctuality board",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/interns/active": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List active interns",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/justifications": {
            "get": {
                "tags": ["Justifications"],
                "summary": "List justifications with derived status",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Justifications"],
                "summary": "Open or re-open a justification ticket",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Ticket limit exceeded"}
                }
            }
        },
        "/justifications/{id}/approve": {
            "post": {
                "tags": ["Justifications"],
                "summary": "Approve a pending justification",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/justifications/{id}/reject": {
            "post": {
                "tags": ["Justifications"],
                "summary": "Reject a pending justification",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/recoveries": {
            "get": {
                "tags": ["Recoveries"],
                "summary": "List recovery sessions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Recoveries"],
                "summary": "Schedule a recovery session",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Record not found"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/recoveries/{id}/hours": {
            "patch": {
                "tags": ["Recoveries"],
                "summary": "Record worked hours for a session",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/recoveries/{id}/cancel": {
            "post": {
                "tags": ["Recoveries"],
                "summary": "Cancel a recovery session",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Invalid state"}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Interns with class on a weekday",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Assign an intern's class schedule",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedules/{internId}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Class day for an intern",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/punctuality/summary": {
            "get": {
                "tags": ["Punctuality"],
                "summary": "Daily punctuality summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/punctuality/alerts": {
            "get": {
                "tags": ["Punctuality"],
                "summary": "Punctuality alerts for a date",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Puntualidad API",
	Description:      "Intern attendance, justification tickets, and recovery hours",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
