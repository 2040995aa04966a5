package reply

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"creditdesk/pkg/contextx"
	"creditdesk/pkg/errcodes"
	"creditdesk/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

// CodedError carries an errcodes classification through an error chain.
type CodedError interface {
	error
	ErrorCode() errcodes.Code
	Description() string
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	code := errcodes.InternalServerError
	message := "internal server error"

	var coded CodedError
	if errors.As(err, &coded) {
		code = coded.ErrorCode()
		message = coded.Description()
	}

	response := errorResponse{
		Code:      code.String(),
		Message:   message,
		SupportID: supportID(ctx),
	}

	switch {
	case code.BadRequest():
		JSON(ctx, w, http.StatusBadRequest, response)
	case code.Missing():
		JSON(ctx, w, http.StatusNotFound, response)
	default:
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
