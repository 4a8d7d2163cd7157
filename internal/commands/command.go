// Package commands parses the palette input line into typed commands.
// Dates, times and identifiers travel as raw strings; the calendar layer
// validates them on execution.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSeries Type = "series"
	TypeEdit   Type = "edit"
	TypeRange  Type = "range"
	TypeBusy   Type = "busy"
	TypeAllow  Type = "allow"
	TypeExport Type = "export"
	TypeImport Type = "import"
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

type AddArgs struct {
	Subject     string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Private     bool
	HasPrivacy  bool
	Description string
	Location    string
}

type SeriesArgs struct {
	Subject   string
	StartDate string
	Days      []string
	Count     int
	Until     string
	StartTime string
	EndTime   string
}

// EditArgs carries only the fields named on the input line; nil means
// leave the field as it is.
type EditArgs struct {
	Target      string
	Subject     *string
	StartDate   *string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	Description *string
	Location    *string
	Public      *bool
}

type RangeArgs struct {
	From string
	To   string
}

type BusyArgs struct {
	Date string
	Time string
}

type AllowArgs struct {
	Enabled bool
}

type FileArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Series *SeriesArgs
	Edit   *EditArgs
	Range  *RangeArgs
	Busy   *BusyArgs
	Allow  *AllowArgs
	File   *FileArgs
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

	parts, err := tokenize(raw)
	if err != nil {
		return Command{}, err
	}
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSeries:
		return parseSeries(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeRange:
		return parseRange(input, args)
	case TypeBusy:
		return parseBusy(input, args)
	case TypeAllow:
		return parseAllow(input, args)
	case TypeExport, TypeImport:
		return parseFile(Type(head), input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a subject and a start date"}
	}
	out := AddArgs{Subject: args[0], StartDate: args[1], EndDate: args[1]}
	for _, arg := range args[2:] {
		key, value, hasValue := splitOption(arg)
		switch key {
		case "end":
			out.EndDate = value
		case "from":
			out.StartTime = value
		case "to":
			out.EndTime = value
		case "desc":
			out.Description = value
		case "loc":
			out.Location = value
		case "private":
			out.Private, out.HasPrivacy = true, true
		case "public":
			out.Private, out.HasPrivacy = false, true
		default:
			if hasValue {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option: %s", key)}
			}
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unexpected argument: %s", arg)}
		}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseSeries(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "series requires a subject and a start date"}
	}
	out := SeriesArgs{Subject: args[0], StartDate: args[1]}
	for _, arg := range args[2:] {
		key, value, _ := splitOption(arg)
		switch key {
		case "days":
			for _, d := range strings.Split(value, ",") {
				if d = strings.TrimSpace(d); d != "" {
					out.Days = append(out.Days, strings.ToUpper(d))
				}
			}
		case "count":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("count must be a number, got %q", value)}
			}
			out.Count = n
		case "until":
			out.Until = value
		case "from":
			out.StartTime = value
		case "to":
			out.EndTime = value
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option: %s", key)}
		}
	}
	if len(out.Days) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "series requires days:<weekday,...>"}
	}
	if (out.Count > 0) == (out.Until != "") {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "series requires exactly one of count:<n> or until:<date>"}
	}
	return Command{Type: TypeSeries, Raw: raw, Series: &out}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires an event id and at least one change"}
	}
	out := EditArgs{Target: args[0]}
	public, private := true, false
	for _, arg := range args[1:] {
		key, value, _ := splitOption(arg)
		switch key {
		case "subject":
			out.Subject = &value
		case "start":
			out.StartDate = &value
		case "end":
			out.EndDate = &value
		case "from":
			out.StartTime = &value
		case "to":
			out.EndTime = &value
		case "desc":
			out.Description = &value
		case "loc":
			out.Location = &value
		case "public":
			out.Public = &public
		case "private":
			out.Public = &private
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown option: %s", key)}
		}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &out}, nil
}

func parseRange(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "range requires a from date and a to date"}
	}
	return Command{Type: TypeRange, Raw: raw, Range: &RangeArgs{From: args[0], To: args[1]}}, nil
}

func parseBusy(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "busy requires a date and a time"}
	}
	return Command{Type: TypeBusy, Raw: raw, Busy: &BusyArgs{Date: args[0], Time: args[1]}}, nil
}

func parseAllow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "allow requires on or off"}
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: TypeAllow, Raw: raw, Allow: &AllowArgs{Enabled: true}}, nil
	case "off":
		return Command{Type: TypeAllow, Raw: raw, Allow: &AllowArgs{Enabled: false}}, nil
	}
	return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("allow takes on or off, got %q", args[0])}
}

func parseFile(typ Type, raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a file path", typ)}
	}
	return Command{Type: typ, Raw: raw, File: &FileArgs{Path: args[0]}}, nil
}

// splitOption breaks "key:value" option tokens; bare words come back with
// hasValue false. Quotes around the value are already gone by tokenize.
func splitOption(arg string) (key, value string, hasValue bool) {
	if i := strings.Index(arg, ":"); i >= 0 {
		return strings.ToLower(arg[:i]), arg[i+1:], true
	}
	return strings.ToLower(arg), "", false
}

// tokenize splits on spaces, keeping double-quoted stretches together so
// subjects and descriptions can carry spaces.
func tokenize(raw string) ([]string, error) {
	out := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false
	hasToken := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case r == ' ' && !inQuotes:
			if hasToken {
				out = append(out, current.String())
				current.Reset()
				hasToken = false
			}
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}
	if inQuotes {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: "unterminated quote"}
	}
	if hasToken {
		out = append(out, current.String())
	}
	if len(out) == 0 {
		return nil, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	return out, nil
}
