// Package docs registra la especificación OpenAPI de la API (formato swag).
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/api/work-orders": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Verifica materiales, agenda recursos y reserva stock de forma atómica.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["work-orders"],
                "summary": "Programar orden de trabajo",
                "parameters": [
                    {"description": "bom_id, quantity, start_date (hora exacta), resource_ids opcional", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ScheduleWorkOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.WorkOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/work-orders/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["work-orders"],
                "summary": "Obtener orden de trabajo",
                "parameters": [{"type": "string", "description": "ID de la orden", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WorkOrderResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/work-orders/{id}/cancel": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Libera recursos y materiales. Una segunda cancelación responde 409 ALREADY_CANCELLED.",
                "produces": ["application/json"],
                "tags": ["work-orders"],
                "summary": "Cancelar orden de trabajo",
                "parameters": [{"type": "string", "description": "ID de la orden", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WorkOrderResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/inventory/availability": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Disponibilidad de materiales para un BOM",
                "parameters": [
                    {"type": "string", "description": "ID del BOM", "name": "bom_id", "in": "query", "required": true},
                    {"type": "integer", "description": "Unidades a producir", "name": "quantity", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AvailabilityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/inventory/replenishment": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Lista de reposición",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ReplenishmentSuggestionDTO"}}}
                }
            }
        },
        "/api/inventory/receipts": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Registrar recepción de material",
                "parameters": [{"description": "material_id, quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReceiveStockRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.StockLevelDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Instancia la plantilla de workflow y calcula la fecha de fin con el camino crítico.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Crear proyecto",
                "parameters": [{"description": "name, workflow_id, start_date, budget", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProjectRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects/{id}/steps/{stepId}/complete": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Responde 409 UNMET_DEPENDENCY con los predecesores pendientes.",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Completar paso del workflow",
                "parameters": [
                    {"type": "string", "description": "ID del proyecto", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "ID del paso", "name": "stepId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProjectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects/{id}/metrics": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Costo total (mano de obra + materiales + gastos), avance y variaciones de presupuesto y plazo.",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Métricas del proyecto",
                "parameters": [{"type": "string", "description": "ID del proyecto", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProjectMetricsDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects/{id}/report.pdf": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/pdf"],
                "tags": ["projects"],
                "summary": "Reporte PDF del proyecto",
                "parameters": [{"type": "string", "description": "ID del proyecto", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/projects/{id}/time-report": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Reporte de tiempos y gastos",
                "parameters": [
                    {"type": "string", "description": "ID del proyecto", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Desde (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Hasta inclusive (YYYY-MM-DD)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TimeReportDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/time-entries": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Registrar tiempo",
                "parameters": [{"description": "resource_id, project_id, start_time, end_time", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LogTimeRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.EntryCreatedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/expense-entries": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Registrar gasto",
                "parameters": [{"description": "project_id, amount, description, category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LogExpenseRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.EntryCreatedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "dto.ScheduleWorkOrderRequest": {
            "type": "object",
            "properties": {
                "bom_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "start_date": {"type": "string"},
                "project_id": {"type": "string"},
                "resource_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.WorkOrderResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "bom_id": {"type": "string"},
                "project_id": {"type": "string"},
                "status": {"type": "string"},
                "quantity": {"type": "integer"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "assigned_resources": {"type": "array", "items": {"type": "string"}},
                "actual_labor_hours": {"type": "number"},
                "actual_material_usage": {"type": "object", "additionalProperties": {"type": "integer"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.AvailabilityResponse": {
            "type": "object",
            "properties": {
                "bom_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "available": {"type": "boolean"}
            }
        },
        "dto.ReceiveStockRequest": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "dto.StockLevelDTO": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string"},
                "stock_quantity": {"type": "integer"}
            }
        },
        "dto.ReplenishmentSuggestionDTO": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string"},
                "material_name": {"type": "string"},
                "current_stock": {"type": "integer"},
                "reorder_point": {"type": "integer"},
                "ideal_stock": {"type": "integer"},
                "suggested_order_qty": {"type": "integer"},
                "unit_cost": {"type": "number"},
                "estimated_order_cost": {"type": "number"},
                "lead_time_days": {"type": "integer"},
                "consumed_last_90d": {"type": "integer"},
                "priority": {"type": "integer"}
            }
        },
        "dto.CreateProjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "workflow_id": {"type": "string"},
                "start_date": {"type": "string"},
                "budget": {"type": "number"}
            }
        },
        "dto.ProjectResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "workflow_id": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "budget": {"type": "number"},
                "actual_cost": {"type": "number"},
                "total_estimated_duration": {"type": "integer"},
                "critical_path": {"type": "array", "items": {"type": "string"}},
                "steps": {"type": "array", "items": {"type": "object"}}
            }
        },
        "dto.ProjectMetricsDTO": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "labor_hours": {"type": "number"},
                "labor_cost": {"type": "number"},
                "material_cost": {"type": "number"},
                "expense_cost": {"type": "number"},
                "total_cost": {"type": "number"},
                "budget_variance": {"type": "number"},
                "progress_percentage": {"type": "number"},
                "planned_end_date": {"type": "string"},
                "forecast_end_date": {"type": "string"},
                "schedule_variance_days": {"type": "number"}
            }
        },
        "dto.TimeReportDTO": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "total_hours": {"type": "number"},
                "by_resource": {"type": "array", "items": {"type": "object"}},
                "expenses": {"type": "number"}
            }
        },
        "dto.LogTimeRequest": {
            "type": "object",
            "properties": {
                "resource_id": {"type": "string"},
                "project_id": {"type": "string"},
                "work_order_id": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "activity_description": {"type": "string"}
            }
        },
        "dto.LogExpenseRequest": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "amount": {"type": "number"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "dto.EntryCreatedResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo información exportada de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Produccion API",
	Description:      "Planificación de producción: órdenes de trabajo, materiales, recursos y proyectos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
