// Package docs registers the admin API OpenAPI document with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/config": {
            "get": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Get tracking config",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TrackingConfig"}}
                }
            },
            "put": {
                "security": [{"CallerID": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Update tracking config",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.ConfigUpdate"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TrackingConfig"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "403": {"description": "Caller is not the owner", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "500": {"description": "Persistence failure", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/data": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Get tracked data",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DataView"}}
                }
            }
        },
        "/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Get summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Summary"}}
                }
            }
        },
        "/scan": {
            "post": {
                "security": [{"CallerID": []}],
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Run a scan now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CycleResult"}},
                    "403": {"description": "Caller is not the owner", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Display channel unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.BucketToggles": {
            "type": "object",
            "properties": {
                "weekly": {"type": "boolean"},
                "biweekly": {"type": "boolean"},
                "monthly": {"type": "boolean"},
                "custom": {"type": "boolean"}
            }
        },
        "models.TrackingConfig": {
            "type": "object",
            "properties": {
                "tracked_channels": {"type": "array", "items": {"type": "string"}},
                "display_channel_id": {"type": "string"},
                "display_message_id": {"type": "string"},
                "update_interval_minutes": {"type": "integer"},
                "buckets": {"$ref": "#/definitions/models.BucketToggles"},
                "custom_days": {"type": "integer"}
            }
        },
        "models.ConfigUpdate": {
            "type": "object",
            "properties": {
                "tracked_channels": {"type": "array", "items": {"type": "string"}},
                "display_channel_id": {"type": "string"},
                "update_interval_minutes": {"type": "integer"},
                "buckets": {"$ref": "#/definitions/models.BucketToggles"},
                "custom_days": {"type": "integer"}
            }
        },
        "models.GiveawayEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "channel_id": {"type": "string"},
                "message_id": {"type": "string"},
                "timestamp": {"type": "integer"},
                "coin": {"type": "string"},
                "coin_amount": {"type": "number"},
                "usd_amount": {"type": "number"},
                "winner_id": {"type": "string"},
                "source": {"type": "string", "enum": ["Others", "Casino", "Discord", "Twitter", "Telegram"]}
            }
        },
        "models.WinnerStats": {
            "type": "object",
            "properties": {
                "wins": {"type": "integer"},
                "total_usd": {"type": "number"}
            }
        },
        "models.SummaryAggregate": {
            "type": "object",
            "properties": {
                "leaderboard": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.WinnerStats"}},
                "distribution": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "models.LeaderboardRow": {
            "type": "object",
            "properties": {
                "winner_id": {"type": "string"},
                "wins": {"type": "integer"},
                "total_usd": {"type": "number"}
            }
        },
        "models.DistributionRow": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "total_usd": {"type": "number"}
            }
        },
        "models.BucketTotals": {
            "type": "object",
            "properties": {
                "all": {"type": "number"},
                "weekly": {"type": "number"},
                "biweekly": {"type": "number"},
                "monthly": {"type": "number"},
                "custom": {"type": "number"}
            }
        },
        "models.DataView": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/models.GiveawayEntry"}},
                "aggregate": {"$ref": "#/definitions/models.SummaryAggregate"},
                "leaderboard": {"type": "array", "items": {"$ref": "#/definitions/models.LeaderboardRow"}},
                "totals": {"$ref": "#/definitions/models.BucketTotals"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "totals": {"$ref": "#/definitions/models.BucketTotals"},
                "buckets": {"$ref": "#/definitions/models.BucketToggles"},
                "custom_days": {"type": "integer"},
                "leaderboard": {"type": "array", "items": {"$ref": "#/definitions/models.LeaderboardRow"}},
                "distribution": {"type": "array", "items": {"$ref": "#/definitions/models.DistributionRow"}},
                "entry_count": {"type": "integer"},
                "generated_at": {"type": "integer"}
            }
        },
        "models.CycleResult": {
            "type": "object",
            "properties": {
                "channels": {"type": "integer"},
                "appended": {"type": "integer"},
                "entry_count": {"type": "integer"},
                "duration_ms": {"type": "integer"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"$ref": "#/definitions/errors.AppError"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"},
                "path": {"type": "string"},
                "method": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "CallerID": {
            "description": "Identity of the admin caller, checked against OWNER_ID",
            "type": "apiKey",
            "name": "X-User-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Giveaway Tracker API",
	Description:      "Admin API of the giveaway tracker bot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
