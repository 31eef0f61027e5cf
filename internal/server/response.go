package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/segcraft-go/internal/service/generation"
	"github.com/kapu/segcraft-go/pkg/errors"
)

const (
	codeInvalidRequest   = "INVALID_REQUEST"
	codeGenerationFailed = "GENERATION_FAILED"
	codeTimeout          = "TIMEOUT"
	codeNotFound         = "NOT_FOUND"
	codeUnavailable      = "UNAVAILABLE"
	codeInternal         = "INTERNAL_ERROR"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	apiErr := APIError{Message: msg, Code: code}
	var failure *generation.Failure
	if stderrors.As(err, &failure) {
		apiErr.Stage = string(failure.Stage)
	}
	c.JSON(status, ErrorEnvelope{Error: apiErr})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondFailure maps a service error onto an HTTP status.
func respondFailure(c *gin.Context, err error) {
	status, code := classify(err)
	RespondError(c, status, code, err)
}

func classify(err error) (int, string) {
	var (
		failure       *generation.Failure
		clientErr     *errors.ClientError
		assetErr      *errors.MockAssetError
		sourceErr     *errors.SourceFormatError
		validationErr *errors.ValidationError
		extractionErr *errors.ExtractionError
	)

	switch {
	case stderrors.Is(err, generation.ErrInvalidRequest):
		return http.StatusBadRequest, codeInvalidRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	case stderrors.As(err, &failure):
		return http.StatusBadGateway, codeGenerationFailed
	case stderrors.As(err, &clientErr):
		return http.StatusServiceUnavailable, clientErr.Code
	case stderrors.As(err, &assetErr):
		return http.StatusInternalServerError, assetErr.Code
	case stderrors.As(err, &sourceErr):
		return http.StatusInternalServerError, sourceErr.Code
	case stderrors.As(err, &validationErr):
		return http.StatusBadGateway, validationErr.Code
	case stderrors.As(err, &extractionErr):
		return http.StatusBadGateway, extractionErr.Code
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
