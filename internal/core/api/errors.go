package api

import (
	"context"
	"errors"

	"github.com/solatis/parametrix/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusError maps engine and catalog errors onto gRPC codes. Errors that
// already carry a status pass through.
func statusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeFor(err), err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, types.ErrCircularDependency),
		errors.Is(err, types.ErrFormulaFailed):
		return codes.FailedPrecondition
	case errors.Is(err, types.ErrFamilyNotFound):
		return codes.NotFound
	case errors.Is(err, types.ErrDuplicateParameter),
		errors.Is(err, types.ErrTooManyParameters),
		errors.Is(err, types.ErrInvalidParameter),
		errors.Is(err, types.ErrInvalidConstraint):
		return codes.InvalidArgument
	case errors.Is(err, types.ErrStorage):
		return codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}
