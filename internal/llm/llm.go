// Package llm turns an informal incident report into a validated protocol
// draft by calling a generative model with a constrained JSON schema.
package llm

import (
	"context"
	"errors"
	"fmt"

	"riskprotocol/internal/protocol"
)

// Client is the narrow surface the form controller depends on.
type Client interface {
	Name() string
	GenerateProtocol(ctx context.Context, report string) (*protocol.Draft, error)
	Close() error
}

// ErrGeneration marks every failure between submitting a report and
// obtaining a validated draft: network errors, non-JSON replies, schema
// violations. Callers surface the message and leave their state untouched.
var ErrGeneration = errors.New("falha ao gerar protocolo")

// ErrInvalidJSON is the cause used when the model returns no parsable
// JSON candidate at all.
var ErrInvalidJSON = errors.New("resposta do modelo não é JSON válido")

func generationError(cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: ocorreu um erro desconhecido", ErrGeneration)
	}
	return fmt.Errorf("%w: %v", ErrGeneration, cause)
}
