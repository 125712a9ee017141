package usecase

import (
	"context"

	"github.com/feedlink/backend/internal/domain"
	"go.uber.org/zap"
)

// CommandService translates commands and runs the resulting BaseLinker calls
type CommandService struct {
	translator *CommandTranslator
	api        domain.InventoryAPI
	logger     *zap.Logger
}

// NewCommandService creates a new command service
func NewCommandService(translator *CommandTranslator, api domain.InventoryAPI, logger *zap.Logger) *CommandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandService{
		translator: translator,
		api:        api,
		logger:     logger,
	}
}

// Translate resolves a command without calling the API
func (s *CommandService) Translate(command string) domain.CommandResult {
	return s.translator.Translate(command)
}

// Execute translates a command and, when it resolves to a method, calls the API.
// Clarification outcomes are returned as-is without any network traffic.
func (s *CommandService) Execute(ctx context.Context, command string) (*domain.CommandExecution, error) {
	result := s.translator.Translate(command)
	execution := &domain.CommandExecution{Result: result}
	if !result.HasMethod() {
		return execution, nil
	}

	s.logger.Info("executing command", zap.String("method", result.Method), zap.String("description", result.Message))

	resp, err := s.api.Call(ctx, result.Method, result.Parameters)
	execution.Response = resp
	if err != nil {
		return execution, err
	}
	return execution, nil
}
