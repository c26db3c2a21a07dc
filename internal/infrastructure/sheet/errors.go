package sheet

import "errors"

var (
	ErrEmpty             = errors.New("spreadsheet is empty")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrSheetNotFound     = errors.New("worksheet not found")
	ErrMalformed         = errors.New("malformed spreadsheet")
)
