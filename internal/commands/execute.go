package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Series func(SeriesArgs) (Result, error)
	Edit   func(EditArgs) (Result, error)
	Range  func(RangeArgs) (Result, error)
	Busy   func(BusyArgs) (Result, error)
	Allow  func(AllowArgs) (Result, error)
	Export func(FileArgs) (Result, error)
	Import func(FileArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeSeries:
		if handlers.Series == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "series handler not configured"}
		}
		return handlers.Series(*cmd.Series)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "edit handler not configured"}
		}
		return handlers.Edit(*cmd.Edit)
	case TypeRange:
		if handlers.Range == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "range handler not configured"}
		}
		return handlers.Range(*cmd.Range)
	case TypeBusy:
		if handlers.Busy == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "busy handler not configured"}
		}
		return handlers.Busy(*cmd.Busy)
	case TypeAllow:
		if handlers.Allow == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "allow handler not configured"}
		}
		return handlers.Allow(*cmd.Allow)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "export handler not configured"}
		}
		return handlers.Export(*cmd.File)
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "import handler not configured"}
		}
		return handlers.Import(*cmd.File)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
