package core

// errors.go defines the error kinds the workbook core can return and the
// mapping from those kinds to user-facing messages with support codes.
//
// Every error is synchronous and local: a failing operation returns the
// prior value untouched, so the calling shell only has to surface the
// message and abort the in-progress action.
//
// Error codes are grouped by category:
//
//	WB001 - Empty workbook: the document contains no sheets
//	WB002 - Empty sheet: a sheet has no columns
//	WB003 - Not found: a sheet, column, or row was referenced but does not exist
//	WB004 - Duplicate sheet: a sheet with that name already exists (or the name is empty)
//	WB005 - Unknown column: an edit targets a column the sheet does not have
//	WB006 - Invalid value: an edit value is not allowed for the column

import (
	"errors"
	"fmt"
)

// SchemaError reports a malformed or empty document or sheet.
type SchemaError struct {
	Sheet  string // empty when the whole workbook is malformed
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Detail)
	}
	return e.Detail
}

// NotFoundError reports a sheet, column, or row referenced but absent.
type NotFoundError struct {
	Kind string // "sheet", "column", "row"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// DuplicateNameError reports an attempt to create a sheet whose name is
// already taken or empty.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	if e.Name == "" {
		return "sheet name must not be empty"
	}
	return fmt.Sprintf("sheet %q already exists", e.Name)
}

// InvalidColumnError reports an edit that targets a column the sheet
// does not declare.
type InvalidColumnError struct {
	Column string
	Sheet  string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("column %q is not a column of sheet %q", e.Column, e.Sheet)
}

// InvalidValueError reports an edit value that violates the target
// column's kind or enum constraint.
type InvalidValueError struct {
	Column string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for column %q: %s", e.Value, e.Column, e.Reason)
}

// UserMessage is a user-friendly error with a support code.
// Users can quote the code to support staff for faster diagnosis.
type UserMessage struct {
	Code    string // Support reference code (e.g., "WB003")
	Message string // User-friendly description
	Action  string // Suggested action to resolve
}

// MapError converts a core error into a UserMessage. Unrecognized errors
// get a generic message; the technical detail is for the server log, not
// the user.
func MapError(err error) UserMessage {
	var (
		schemaErr    *SchemaError
		notFoundErr  *NotFoundError
		duplicateErr *DuplicateNameError
		columnErr    *InvalidColumnError
		valueErr     *InvalidValueError
	)

	switch {
	case errors.As(err, &schemaErr):
		if schemaErr.Sheet == "" {
			return UserMessage{
				Code:    "WB001",
				Message: "The uploaded workbook contains no sheets.",
				Action:  "Upload an Excel file with at least one sheet of task data.",
			}
		}
		return UserMessage{
			Code:    "WB002",
			Message: fmt.Sprintf("Sheet %q has no columns.", schemaErr.Sheet),
			Action:  "Make sure every sheet has a header row.",
		}

	case errors.As(err, &notFoundErr):
		return UserMessage{
			Code:    "WB003",
			Message: fmt.Sprintf("The %s %q does not exist.", notFoundErr.Kind, notFoundErr.Name),
			Action:  "Refresh the sheet list and try again.",
		}

	case errors.As(err, &duplicateErr):
		if duplicateErr.Name == "" {
			return UserMessage{
				Code:    "WB004",
				Message: "Sheet names must not be empty.",
				Action:  "Choose a name for the new project sheet.",
			}
		}
		return UserMessage{
			Code:    "WB004",
			Message: fmt.Sprintf("A sheet named %q already exists.", duplicateErr.Name),
			Action:  "Choose a different name for the new project sheet.",
		}

	case errors.As(err, &columnErr):
		return UserMessage{
			Code:    "WB005",
			Message: fmt.Sprintf("Column %q does not exist on this sheet.", columnErr.Column),
			Action:  "Reload the sheet and retry the edit.",
		}

	case errors.As(err, &valueErr):
		return UserMessage{
			Code:    "WB006",
			Message: fmt.Sprintf("%q is not an allowed value for column %q.", valueErr.Value, valueErr.Column),
			Action:  "Check the allowed values for this column.",
		}
	}

	return UserMessage{
		Code:    "WB999",
		Message: "An unexpected error occurred.",
		Action:  "Please try again. If the problem persists, quote code WB999 to support.",
	}
}
