package docs

import "github.com/swaggo/swag"

// @title           WholePod API
// @version         1.0
// @description     API for agency project management: projects, milestones, tasks, subtasks, notifications

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and login

// @tag.name Projects
// @tag.description Project management, progress roll-up and revenue

// @tag.name Milestones
// @tag.description Milestone management within projects

// @tag.name Tasks
// @tag.description Task lifecycle: status, timer, hold, complete, approve, revision

// @tag.name Notifications
// @tag.description Per-user notification feed

const docTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "description": "API for agency project management: projects, milestones, tasks, subtasks, notifications",
        "title": "WholePod API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/",
    "paths": {},
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "WholePod API",
	Description:      "API for agency project management",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
