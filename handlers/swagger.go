package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>orgvault — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the public endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "orgvault", "version": "v0.1.0" },
  "paths": {
    "/auth/{provider}": {
      "get": { "summary": "Start the provider login flow (use ?cli=true for CLI-initiated logins)", "responses": { "302": { "description": "redirect to the provider" } } }
    },
    "/auth/{provider}/callback": {
      "get": { "summary": "Provider redirect target", "responses": { "200": { "description": "CLI bridge token page" }, "302": { "description": "browser session created, redirect to dashboard" } } }
    },
    "/cli-token/{token}": {
      "get": { "summary": "Resolve a bridge token to the authenticated identity", "responses": { "200": { "description": "token, userId, username, organizationId" }, "404": { "description": "token not found or expired" } } }
    },
    "/secrets": {
      "get": { "summary": "List the organization's secrets (bearer or cookie auth)", "responses": { "200": { "description": "ordered list of secrets" }, "401": { "description": "unauthorized" } } },
      "post": { "summary": "Create a secret", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"key":{"type":"string"},"value":{"type":"string"}}}}}}, "responses": { "201": { "description": "created secret" }, "400": { "description": "missing key or value" }, "401": { "description": "unauthorized" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
