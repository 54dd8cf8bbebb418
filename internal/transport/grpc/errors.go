package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/domain"
)

const errorDomain = "salonbook"

var kindCodes = map[domain.ErrorKind]codes.Code{
	domain.ErrorKindNotFound:   codes.NotFound,
	domain.ErrorKindBadRequest: codes.InvalidArgument,
	domain.ErrorKindConflict:   codes.FailedPrecondition,
	domain.ErrorKindForbidden:  codes.PermissionDenied,
}

// toStatus converts a service error into a gRPC status error. Domain errors keep
// their detail and carry the kind as ErrorInfo; anything else is Internal.
func toStatus(log *slog.Logger, err error) error {
	if err == nil {
		return nil
	}

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		code, ok := kindCodes[dErr.Kind]
		if !ok {
			code = codes.Unknown
		}
		log.Info("request rejected", slog.String("kind", string(dErr.Kind)), slog.String("detail", dErr.Detail))
		st := status.New(code, dErr.Detail)
		if withInfo, infoErr := st.WithDetails(&errdetails.ErrorInfo{
			Reason: strings.ToUpper(string(dErr.Kind)),
			Domain: errorDomain,
		}); infoErr == nil {
			st = withInfo
		}
		return st.Err()
	}

	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", slog.Any("err", err))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	}

	log.Error("request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}

// ErrorReason extracts the ErrorInfo reason attached by toStatus.
func ErrorReason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason()
		}
	}
	return ""
}
