package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Done      func(DoneArgs) (Result, error)
	Auto      func(AutoArgs) (Result, error)
	Delete    func(DeleteArgs) (Result, error)
	Duplicate func(DuplicateArgs) (Result, error)
	Deadline  func(DeadlineArgs) (Result, error)
	Show      func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeAuto:
		if handlers.Auto == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "auto handler not configured"}
		}
		return handlers.Auto(*cmd.Auto)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "del handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypeDuplicate:
		if handlers.Duplicate == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "dup handler not configured"}
		}
		return handlers.Duplicate(*cmd.Duplicate)
	case TypeDeadline:
		if handlers.Deadline == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "deadline handler not configured"}
		}
		return handlers.Deadline(*cmd.Deadline)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
