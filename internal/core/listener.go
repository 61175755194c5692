package core

import (
	"github.com/Rorical/RoriForge/internal/directive"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/workspace"
)

// TurnResult describes a finished turn. Err is set when the turn failed, in
// which case no operations were extracted or applied.
type TurnResult struct {
	ID         string
	Reply      string
	Operations []directive.Operation
	Effects    []workspace.Effect
	Workspace  workspace.State
	Err        error
}

// Listener observes a ChatService. Calls arrive on the goroutine running the
// turn, in order.
type Listener interface {
	// HistoryChanged is called after the user message is added, after every
	// delta, and when the turn ends.
	HistoryChanged(messages []models.Message, processing bool)
	// FileOperation is called once per extracted operation, in textual order,
	// before the batch is applied.
	FileOperation(op directive.Operation)
	TurnFinished(result TurnResult)
}

// ListenerFuncs adapts optional functions to Listener.
type ListenerFuncs struct {
	HistoryFunc   func(messages []models.Message, processing bool)
	OperationFunc func(op directive.Operation)
	FinishedFunc  func(result TurnResult)
}

func (l ListenerFuncs) HistoryChanged(messages []models.Message, processing bool) {
	if l.HistoryFunc != nil {
		l.HistoryFunc(messages, processing)
	}
}

func (l ListenerFuncs) FileOperation(op directive.Operation) {
	if l.OperationFunc != nil {
		l.OperationFunc(op)
	}
}

func (l ListenerFuncs) TurnFinished(result TurnResult) {
	if l.FinishedFunc != nil {
		l.FinishedFunc(result)
	}
}
