package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"safetrack/internal/errs"
)

// ReadXLSX reads one worksheet with raw cell values, so dates arrive as
// Excel serial numbers rather than display strings.
func ReadXLSX(r io.Reader, sheetName string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: open xlsx: %v", ErrMalformed, err)
	}
	defer f.Close()

	name := sheetName
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, errs.Wrap(ErrEmpty, "list worksheets")
		}
		name = sheets[0]
	} else if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return Table{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, errs.Wrapf(err, "read worksheet %q", name)
	}
	return newTable(rows, nil)
}
