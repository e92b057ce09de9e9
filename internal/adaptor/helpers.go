package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/utils"

	"go.uber.org/zap"
)

var errBadBody = apperror.Validation("Invalid request body", nil)

// decodeJSON decodes the body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is required", nil)
		}
		return errBadBody
	}

	return validateRequest(dst)
}

func validateRequest(req any) error {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		details := make(map[string]any, len(validationErrors))
		for field, msg := range validationErrors {
			details[field] = msg
		}
		return apperror.Validation("Validation failed", details)
	}
	return nil
}

func errorBody(appErr *apperror.Error) map[string]any {
	body := map[string]any{"code": appErr.Code}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return body
}

// handleServiceError maps an error onto the response envelope. Internal
// causes are logged and never sent to the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr := apperror.As(err)

	switch appErr.Kind {
	case apperror.KindValidation:
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, appErr.Message, errorBody(appErr))

	case apperror.KindUnauthorized:
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseJSON(w, http.StatusUnauthorized, false, appErr.Message, nil, errorBody(appErr))

	case apperror.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseJSON(w, http.StatusForbidden, false, appErr.Message, nil, errorBody(appErr))

	case apperror.KindNotFound:
		log.Info(operation+" failed - not found", zap.Error(err))
		utils.ResponseJSON(w, http.StatusNotFound, false, appErr.Message, nil, errorBody(appErr))

	case apperror.KindConflict:
		log.Info(operation+" failed - conflict", zap.Error(err), zap.String("code", appErr.Code))
		utils.ResponseConflict(w, appErr.Message, errorBody(appErr))

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusInternalServerError, false, "Internal server error", nil,
			map[string]any{"code": apperror.CodeInternal})
	}
}

// identity returns the authenticated caller or writes a 401.
func identity(w http.ResponseWriter, r *http.Request) (utils.Identity, bool) {
	actor, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Identity{}, false
	}
	return actor, true
}

func parsePagination(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()

	perPage := query.Get("perPage")
	if perPage == "" {
		perPage = query.Get("per_page")
	}

	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(perPage, 10),
	}
}
