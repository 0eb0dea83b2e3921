// Package commands implements the palette grammar: a small command
// language for managing tasks without leaving the keyboard.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeDone      Type = "done"
	TypeAuto      Type = "auto"
	TypeDelete    Type = "del"
	TypeDuplicate Type = "dup"
	TypeDeadline  Type = "deadline"
	TypeShow      Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs is a parsed add command. The title runs until the first
// option token; Due, From, To and Between stay raw and are interpreted
// by the handler.
type AddArgs struct {
	Title    string
	Due      string
	Duration int
	Effort   string
	From     string
	To       string
	Days     []int
	Between  string
	Split    bool
	Auto     bool
}

type DoneArgs struct {
	ID string
}

type AutoArgs struct {
	ID string
}

type DeleteArgs struct {
	ID string
}

type DuplicateArgs struct {
	ID string
}

type DeadlineArgs struct {
	ID   string
	When string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type      Type
	Raw       string
	Add       *AddArgs
	Done      *DoneArgs
	Auto      *AutoArgs
	Delete    *DeleteArgs
	Duplicate *DuplicateArgs
	Deadline  *DeadlineArgs
	Show      *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		id, err := singleID(args, "done")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &DoneArgs{ID: id}}, nil
	case TypeAuto:
		id, err := singleID(args, "auto")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeAuto, Raw: input, Auto: &AutoArgs{ID: id}}, nil
	case TypeDelete:
		id, err := singleID(args, "del")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDelete, Raw: input, Delete: &DeleteArgs{ID: id}}, nil
	case TypeDuplicate:
		id, err := singleID(args, "dup")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDuplicate, Raw: input, Duplicate: &DuplicateArgs{ID: id}}, nil
	case TypeDeadline:
		return parseDeadline(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func singleID(args []string, verb string) (string, error) {
	if len(args) != 1 {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: verb + " requires a task id"}
	}
	return strings.ToLower(args[0]), nil
}

// isOptionToken reports whether the token starts the option tail of an
// add command.
func isOptionToken(tok string) bool {
	lower := strings.ToLower(tok)
	if lower == "split" || lower == "auto" {
		return true
	}
	for _, prefix := range []string{"due:", "dur:", "effort:", "from:", "to:", "days:", "between:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func parseAdd(raw string, args []string) (Command, error) {
	var titleWords []string
	i := 0
	for ; i < len(args); i++ {
		if isOptionToken(args[i]) {
			break
		}
		titleWords = append(titleWords, args[i])
	}
	title := strings.TrimSpace(strings.Join(titleWords, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}

	out := AddArgs{Title: title}
	for ; i < len(args); i++ {
		tok := args[i]
		lower := strings.ToLower(tok)
		switch {
		case lower == "split":
			out.Split = true
		case lower == "auto":
			out.Auto = true
		case strings.HasPrefix(lower, "due:"):
			out.Due = tok[len("due:"):]
		case strings.HasPrefix(lower, "dur:"):
			minutes, err := strconv.Atoi(tok[len("dur:"):])
			if err != nil || minutes <= 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", tok)}
			}
			out.Duration = minutes
		case strings.HasPrefix(lower, "effort:"):
			out.Effort = strings.ToLower(tok[len("effort:"):])
		case strings.HasPrefix(lower, "from:"):
			out.From = tok[len("from:"):]
		case strings.HasPrefix(lower, "to:"):
			out.To = tok[len("to:"):]
		case strings.HasPrefix(lower, "days:"):
			days, err := parseDays(tok[len("days:"):])
			if err != nil {
				return Command{}, err
			}
			out.Days = days
		case strings.HasPrefix(lower, "between:"):
			out.Between = tok[len("between:"):]
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option: %s", tok)}
		}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDays(s string) ([]int, error) {
	if s == "" {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: "days requires a weekday list"}
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 || d > 6 {
			return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid weekday: %s", p)}
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDeadline(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "deadline requires a task id and a time"}
	}
	return Command{Type: TypeDeadline, Raw: raw, Deadline: &DeadlineArgs{
		ID:   strings.ToLower(args[0]),
		When: strings.Join(args[1:], " "),
	}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "today", "week", "tasks", "overdue", "history":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}
