// Package docs holds the OpenAPI document for the sync api. It keeps the
// layout `swag init` writes, so regenerating from the handler annotations
// replaces this file in place
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "{{.BasePath}}"
        }
    ],
    "paths": {
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Liveness",
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness of the configured stores",
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build information",
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/meta/service": {
            "get": {
                "tags": ["Meta"],
                "summary": "Service name, uptime and forge authentication",
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/sync/verify": {
            "post": {
                "tags": ["Sync"],
                "summary": "Check that a repository and branch are reachable",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/RepoInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok"
                    },
                    "404": {
                        "description": "repository or branch not found"
                    }
                }
            }
        },
        "/sync/read": {
            "post": {
                "tags": ["Sync"],
                "summary": "Read one JSON file by path or blob sha",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/ReadInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "file content"
                    }
                }
            }
        },
        "/sync/scan": {
            "post": {
                "tags": ["Sync"],
                "summary": "Find the metadata files of a repository",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/RepoInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/sync/import": {
            "post": {
                "tags": ["Sync"],
                "summary": "Scan a repository and import its records",
                "description": "A cancelled run answers 200 with cancelled=true. A failed commit answers with the error and the partial report under data",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/RepoInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/sync/files": {
            "put": {
                "tags": ["Sync"],
                "summary": "Create or replace one file on the branch",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/PutFileInput"
                            }
                        }
                    }
                },
                "responses": {
                    "204": {
                        "description": "written"
                    },
                    "409": {
                        "description": "revision changed twice"
                    }
                }
            }
        },
        "/sync/records": {
            "put": {
                "tags": ["Sync"],
                "summary": "Write one record to metadata-aardvark",
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/PutRecordInput"
                            }
                        }
                    }
                },
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/sync/runs": {
            "get": {
                "tags": ["Sync"],
                "summary": "Recent import runs, newest first",
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "description": "max rows (default 20, at most 500)",
                        "schema": {
                            "type": "integer"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "Number of stored records",
                "responses": {
                    "200": {
                        "description": "ok"
                    }
                }
            }
        },
        "/records/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "One stored record",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok"
                    },
                    "404": {
                        "description": "not found"
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "RepoInput": {
                "type": "object",
                "required": ["repo_url"],
                "properties": {
                    "repo_url": {
                        "type": "string"
                    },
                    "branch": {
                        "type": "string"
                    },
                    "token": {
                        "type": "string"
                    }
                }
            },
            "ReadInput": {
                "allOf": [
                    {
                        "$ref": "#/components/schemas/RepoInput"
                    },
                    {
                        "type": "object",
                        "properties": {
                            "path": {
                                "type": "string"
                            },
                            "sha": {
                                "type": "string"
                            }
                        }
                    }
                ]
            },
            "PutFileInput": {
                "allOf": [
                    {
                        "$ref": "#/components/schemas/RepoInput"
                    },
                    {
                        "type": "object",
                        "required": ["path", "content"],
                        "properties": {
                            "path": {
                                "type": "string"
                            },
                            "content": {},
                            "message": {
                                "type": "string"
                            }
                        }
                    }
                ]
            },
            "PutRecordInput": {
                "allOf": [
                    {
                        "$ref": "#/components/schemas/RepoInput"
                    },
                    {
                        "type": "object",
                        "required": ["record"],
                        "properties": {
                            "record": {
                                "type": "object"
                            },
                            "message": {
                                "type": "string"
                            }
                        }
                    }
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Title:            "aardsync API",
	Description:      "Repository metadata sync for the aardvark editor",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
