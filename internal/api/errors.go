// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/streamflix/internal/metrics"
	"github.com/tomtom215/streamflix/internal/models"
	"github.com/tomtom215/streamflix/internal/recommend"
	"github.com/tomtom215/streamflix/internal/validation"
)

// API error codes.
const (
	CodeValidation         = validation.CodeValidationError
	CodeInsufficientSignal = "INSUFFICIENT_SIGNAL"
	CodeDuplicateItem      = "DUPLICATE_ITEM"
	CodeInvalidRating      = "INVALID_RATING"
	CodeUnknownItem        = "UNKNOWN_ITEM"
	CodeFitTimeout         = "FIT_TIMEOUT"
	CodeRecommendation     = "RECOMMENDATION_ERROR"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
)

// classifiedError is an engine error translated for the API.
type classifiedError struct {
	status int
	result string // metrics label
	apiErr *models.APIError
}

// classifyRecommendError maps an engine error to its HTTP status, error code
// and metrics result.
func classifyRecommendError(err error) classifiedError {
	var (
		unknown   *recommend.UnknownItemError
		duplicate *recommend.DuplicateItemError
		invalid   *recommend.InvalidRatingError
		badReq    *recommend.InvalidRequestError
	)

	switch {
	case errors.Is(err, recommend.ErrInsufficientSignal):
		return invalidRequest(CodeInsufficientSignal, "At least one rating is required", nil)
	case errors.As(err, &unknown):
		return classifiedError{
			status: http.StatusNotFound,
			result: metrics.ResultInvalid,
			apiErr: &models.APIError{
				Code:    CodeUnknownItem,
				Message: err.Error(),
				Details: map[string]interface{}{"movie_id": unknown.ItemID},
			},
		}
	case errors.As(err, &duplicate):
		return invalidRequest(CodeDuplicateItem, err.Error(), map[string]interface{}{"movie_id": duplicate.ItemID})
	case errors.As(err, &invalid):
		return invalidRequest(CodeInvalidRating, err.Error(), map[string]interface{}{
			"movie_id": invalid.ItemID,
			"rating":   invalid.Value,
		})
	case errors.As(err, &badReq):
		return invalidRequest(CodeValidation, err.Error(), map[string]interface{}{"field": badReq.Field})
	case errors.Is(err, context.DeadlineExceeded):
		return classifiedError{
			status: http.StatusGatewayTimeout,
			result: metrics.ResultTimeout,
			apiErr: &models.APIError{Code: CodeFitTimeout, Message: "Model training exceeded its time budget"},
		}
	case errors.Is(err, context.Canceled):
		return classifiedError{
			status: http.StatusInternalServerError,
			result: metrics.ResultCanceled,
			apiErr: &models.APIError{Code: CodeRecommendation, Message: "Request was canceled"},
		}
	default:
		return classifiedError{
			status: http.StatusInternalServerError,
			result: metrics.ResultError,
			apiErr: &models.APIError{Code: CodeRecommendation, Message: "Failed to generate recommendations"},
		}
	}
}

func invalidRequest(code, message string, details map[string]interface{}) classifiedError {
	return classifiedError{
		status: http.StatusBadRequest,
		result: metrics.ResultInvalid,
		apiErr: &models.APIError{Code: code, Message: message, Details: details},
	}
}
