package contextx

import (
	"context"
	"fmt"
)

type LoanRequestID string

type contextKeyLoanRequestID struct{}

func (id LoanRequestID) String() string {
	return string(id)
}

func WithLoanRequestID(ctx context.Context, id LoanRequestID) context.Context {
	return context.WithValue(ctx, contextKeyLoanRequestID{}, id)
}

func LoanRequestIDFromContext(ctx context.Context) (LoanRequestID, error) {
	id, ok := ctx.Value(contextKeyLoanRequestID{}).(LoanRequestID)
	if !ok {
		return "", fmt.Errorf("loan request id: %w", ErrNoValue)
	}

	return id, nil
}
