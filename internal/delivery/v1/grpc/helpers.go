package grpc

import (
	"context"
	"errors"

	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Тексты совпадают с HTTP-ответами.
const (
	msgItemNotFound     = "Item not found"
	msgMissingEmbedding = "Item embedding not found. Please re-upload the item."
	msgUpstreamError    = "Styling service is temporarily unavailable. Please try again later."
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrGarmentNotFound):
		return status.Error(codes.NotFound, msgItemNotFound)
	case errors.Is(err, e.ErrMissingEmbedding):
		return status.Error(codes.FailedPrecondition, msgMissingEmbedding)
	case errors.Is(err, e.ErrUpstreamUnavailable):
		return status.Error(codes.Unavailable, msgUpstreamError)
	case errors.Is(err, e.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, e.ErrUnauthorized.Error())
	case errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, e.ErrStatusBadRequest.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
