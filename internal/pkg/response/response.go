// Package response renders the uniform JSON envelope every endpoint uses.
// Failures carry a stable machine-readable code next to a human-readable
// message; internal error detail never reaches the client.
package response

import "github.com/gin-gonic/gin"

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{Success: false, Error: &apiError{Code: code, Message: message}})
}
