package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/encuentro-api/internal/apperror"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Success envía una respuesta exitosa
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error envía una respuesta de error con mensaje personalizado
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// FromError traduce un error del dominio a una respuesta HTTP. Los errores
// internos y de base de datos se colapsan a un 500 genérico sin detalle.
func FromError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	resp := ErrorResponse{
		Success: false,
		Code:    string(kind),
	}

	switch kind {
	case apperror.KindInternal, apperror.KindStoreUnavailable:
		resp.Error = "internal server error"
	default:
		resp.Error = err.Error()
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			resp.Error = appErr.Message
			resp.Fields = appErr.Fields
		}
	}

	c.JSON(status, resp)
}

// BadRequest envía un error 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, string(apperror.KindValidationFailed), message)
}

// NotFound envía un error 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, string(apperror.KindNotFound), message)
}

// Internal envía un error 500
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, string(apperror.KindInternal), message)
}

// Unauthorized envía un error 401
func Unauthorized(c *gin.Context, code, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}
