// Package docs holds the OpenAPI document for the versioned API
// keep paths in step with the @Router annotations on the handlers
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/scan": {
            "post": {
                "tags": ["scan"],
                "summary": "Scan a hex stream",
                "description": "Finds marker occurrences, classifies the gaps between them and reports the frame state",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScanInput"}}}
                },
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScanResult"}}}},
                    "413": {"description": "Stream too large", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
                    "422": {"description": "Invalid thresholds", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/scan/raw": {
            "post": {
                "tags": ["scan"],
                "summary": "Scan a raw hex body",
                "description": "The body is the stream itself; Content-Encoding gzip or s2 is accepted",
                "parameters": [
                    {"name": "marker", "in": "query", "schema": {"type": "string", "default": "f6f6f62828"}},
                    {"name": "period", "in": "query", "schema": {"type": "number", "default": 16320}},
                    {"name": "tolerance", "in": "query", "schema": {"type": "number", "default": 1}},
                    {"name": "mode", "in": "query", "schema": {"type": "string", "enum": ["strict", "lenient"]}},
                    {"name": "matcher", "in": "query", "schema": {"type": "string", "enum": ["automaton", "naive"]}},
                    {"name": "lane", "in": "query", "schema": {"type": "integer"}},
                    {"name": "preview", "in": "query", "schema": {"type": "integer"}},
                    {"name": "persist", "in": "query", "schema": {"type": "boolean"}}
                ],
                "requestBody": {
                    "required": true,
                    "content": {"text/plain": {"schema": {"type": "string"}}}
                },
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScanResult"}}}},
                    "413": {"description": "Stream too large", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/scan/chart": {
            "post": {
                "tags": ["scan"],
                "summary": "Gap distance chart",
                "description": "Scans the stream and renders its gap distances as a PNG bar chart",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScanInput"}}}
                },
                "responses": {
                    "200": {"description": "PNG", "content": {"image/png": {"schema": {"type": "string", "format": "binary"}}}},
                    "422": {"description": "No gaps to chart", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/scan/recent": {
            "get": {
                "tags": ["scan"],
                "summary": "Recent persisted scans",
                "parameters": [
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "default": 20}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/ScanRecord"}}}}}
                }
            }
        },
        "/scan/info": {
            "get": {
                "tags": ["scan"],
                "summary": "Scanner defaults and limits",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScannerInfo"}}}}
                }
            }
        },
        "/scan/{id}": {
            "get": {
                "tags": ["scan"],
                "summary": "Get a persisted scan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScanResult"}}}},
                    "404": {"description": "Not found", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/mock/stream": {
            "get": {
                "tags": ["mock"],
                "summary": "Generate a test stream",
                "parameters": [
                    {"name": "seed", "in": "query", "schema": {"type": "integer"}},
                    {"name": "kind", "in": "query", "schema": {"type": "string", "enum": ["random", "framed"], "default": "random"}},
                    {"name": "marker", "in": "query", "schema": {"type": "string", "default": "f6f6f62828"}},
                    {"name": "digits", "in": "query", "schema": {"type": "integer", "default": 1000}},
                    {"name": "insert_prob", "in": "query", "schema": {"type": "number", "default": 0.01}},
                    {"name": "frames", "in": "query", "schema": {"type": "integer", "default": 8}},
                    {"name": "period", "in": "query", "schema": {"type": "integer", "default": 16320}},
                    {"name": "jitter_prob", "in": "query", "schema": {"type": "number"}},
                    {"name": "jitter_max", "in": "query", "schema": {"type": "integer"}},
                    {"name": "encoding", "in": "query", "schema": {"type": "string", "enum": ["json", "plain", "gzip", "s2"], "default": "json"}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {
                        "application/json": {"schema": {"$ref": "#/components/schemas/MockStream"}},
                        "text/plain": {"schema": {"type": "string"}}
                    }}
                }
            }
        },
        "/mock/gaps": {
            "get": {
                "tags": ["mock"],
                "summary": "Generate synthetic gaps",
                "parameters": [
                    {"name": "seed", "in": "query", "schema": {"type": "integer"}},
                    {"name": "n", "in": "query", "schema": {"type": "integer", "default": 20}},
                    {"name": "period", "in": "query", "schema": {"type": "integer", "default": 16320}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/MockGaps"}}}}
                }
            }
        },
        "/lanes": {
            "get": {
                "tags": ["lanes"],
                "summary": "Lane roster and totals",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LaneSnapshot"}}}}
                }
            }
        },
        "/lanes/{id}": {
            "get": {
                "tags": ["lanes"],
                "summary": "One lane with its recent gaps",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LaneDetail"}}}},
                    "404": {"description": "Not refreshed yet", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/lanes/refresh": {
            "post": {
                "tags": ["lanes"],
                "summary": "Refresh every lane now",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LaneSnapshot"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {"tags": ["meta"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/ready": {
            "get": {
                "tags": ["meta"],
                "summary": "Readiness of the storage backends",
                "responses": {"200": {"description": "OK"}, "503": {"description": "A backend failed its ping"}}
            }
        },
        "/meta/version": {
            "get": {"tags": ["meta"], "summary": "Build information", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/service": {
            "get": {"tags": ["meta"], "summary": "Service name and uptime", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/scanner": {
            "get": {
                "tags": ["meta"],
                "summary": "Scanner defaults",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ScannerInfo"}}}}
                }
            }
        }
    },
    "components": {
        "schemas": {
            "Params": {
                "type": "object",
                "properties": {
                    "marker": {"type": "string", "example": "f6f6f62828"},
                    "expected_period_bytes": {"type": "number", "example": 16320},
                    "tolerance_bytes": {"type": "number", "example": 1}
                }
            },
            "Gap": {
                "type": "object",
                "properties": {
                    "sequence": {"type": "integer"},
                    "index": {"type": "integer"},
                    "prev_index": {"type": "integer"},
                    "byte_distance": {"type": "integer"},
                    "raw_byte_distance": {"type": "number"},
                    "expected": {"type": "boolean"},
                    "timestamp": {"type": "string", "format": "date-time"}
                }
            },
            "Summary": {
                "type": "object",
                "properties": {
                    "gaps": {"type": "integer"},
                    "expected": {"type": "integer"},
                    "unexpected": {"type": "integer"},
                    "mean_byte_distance": {"type": "number"},
                    "min_byte_distance": {"type": "integer"},
                    "max_byte_distance": {"type": "integer"},
                    "expected_ratio": {"type": "number"}
                }
            },
            "FrameStatus": {
                "type": "object",
                "properties": {
                    "state": {"type": "string", "enum": ["In Frame", "Out of Frame"]},
                    "transitions": {"type": "integer"},
                    "last_expected": {"type": "integer"},
                    "run": {"type": "integer"}
                }
            },
            "Preview": {
                "type": "object",
                "properties": {
                    "segments": {"type": "array", "items": {"type": "object", "properties": {"text": {"type": "string"}, "marker": {"type": "boolean"}}}},
                    "markers": {"type": "integer"},
                    "truncated": {"type": "boolean"},
                    "total_digits": {"type": "integer"}
                }
            },
            "ScanInput": {
                "type": "object",
                "required": ["stream"],
                "properties": {
                    "stream": {"type": "string", "example": "00f6f6f6282800"},
                    "marker": {"type": "string", "example": "f6f6f62828"},
                    "expected_period_bytes": {"type": "number", "example": 16320},
                    "tolerance_bytes": {"type": "number", "example": 1},
                    "markers": {"type": "array", "items": {"type": "string"}},
                    "matcher": {"type": "string", "enum": ["automaton", "naive"]},
                    "mode": {"type": "string", "enum": ["strict", "lenient"]},
                    "lane_id": {"type": "integer"},
                    "persist": {"type": "boolean"},
                    "preview_digits": {"type": "integer"}
                }
            },
            "ScanResult": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "created_at": {"type": "string", "format": "date-time"},
                    "lane_id": {"type": "integer"},
                    "params": {"$ref": "#/components/schemas/Params"},
                    "matcher": {"type": "string"},
                    "mode": {"type": "string"},
                    "stream_digits": {"type": "integer"},
                    "fingerprint": {"type": "string"},
                    "occurrences": {"type": "integer"},
                    "gaps": {"type": "array", "items": {"$ref": "#/components/schemas/Gap"}},
                    "extra": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/components/schemas/Gap"}}},
                    "summary": {"$ref": "#/components/schemas/Summary"},
                    "frame": {"$ref": "#/components/schemas/FrameStatus"},
                    "preview": {"$ref": "#/components/schemas/Preview"},
                    "cached": {"type": "boolean"},
                    "persisted": {"type": "boolean"}
                }
            },
            "ScanRecord": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "created_at": {"type": "string", "format": "date-time"},
                    "lane_id": {"type": "integer"},
                    "params": {"$ref": "#/components/schemas/Params"},
                    "stream_digits": {"type": "integer"},
                    "fingerprint": {"type": "string"},
                    "summary": {"$ref": "#/components/schemas/Summary"},
                    "frame_state": {"type": "string"}
                }
            },
            "ScannerInfo": {
                "type": "object",
                "properties": {
                    "params": {"$ref": "#/components/schemas/Params"},
                    "matcher": {"type": "string"},
                    "mode": {"type": "string"},
                    "frame_thresholds": {"type": "object", "properties": {"acquire": {"type": "integer"}, "lose": {"type": "integer"}}},
                    "max_digits": {"type": "integer"},
                    "async_threshold": {"type": "integer"},
                    "cache_size": {"type": "integer"},
                    "preview_digits": {"type": "integer"}
                }
            },
            "MockStream": {
                "type": "object",
                "properties": {
                    "seed": {"type": "integer"},
                    "kind": {"type": "string"},
                    "marker": {"type": "string"},
                    "digits": {"type": "integer"},
                    "stream": {"type": "string"}
                }
            },
            "MockGaps": {
                "type": "object",
                "properties": {
                    "seed": {"type": "integer"},
                    "period_bytes": {"type": "integer"},
                    "gaps": {"type": "array", "items": {"$ref": "#/components/schemas/Gap"}}
                }
            },
            "Lane": {
                "type": "object",
                "properties": {
                    "id": {"type": "integer"},
                    "status": {"type": "string", "enum": ["In Frame", "Out of Frame"]},
                    "active": {"type": "boolean"},
                    "pattern_count": {"type": "integer"},
                    "last_detection": {"type": "string", "format": "date-time"},
                    "summary": {"$ref": "#/components/schemas/Summary"},
                    "frame": {"$ref": "#/components/schemas/FrameStatus"}
                }
            },
            "LaneDetail": {
                "allOf": [
                    {"$ref": "#/components/schemas/Lane"},
                    {
                        "type": "object",
                        "properties": {
                            "scan_id": {"type": "string", "format": "uuid"},
                            "digits": {"type": "integer"},
                            "tick": {"type": "integer"},
                            "updated_at": {"type": "string", "format": "date-time"},
                            "gaps": {"type": "array", "items": {"$ref": "#/components/schemas/Gap"}},
                            "preview": {"$ref": "#/components/schemas/Preview"}
                        }
                    }
                ]
            },
            "LaneSnapshot": {
                "type": "object",
                "properties": {
                    "totals": {
                        "type": "object",
                        "properties": {
                            "lanes": {"type": "integer"},
                            "active": {"type": "integer"},
                            "inactive": {"type": "integer"},
                            "in_frame": {"type": "integer"},
                            "total_patterns": {"type": "integer"},
                            "avg_patterns_per_lane": {"type": "integer"},
                            "status": {"type": "string"}
                        }
                    },
                    "lanes": {"type": "array", "items": {"$ref": "#/components/schemas/Lane"}},
                    "tick": {"type": "integer"},
                    "refreshed_at": {"type": "string", "format": "date-time"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "OTN Analyzer API",
	Description:      "Marker scanning, gap classification and lane monitoring for OTN hex streams",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
