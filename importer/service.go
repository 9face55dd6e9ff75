package importer

import (
	"context"
	"errors"
	"fmt"

	"weeklog/timesheet"
)

// EntryAdder is the part of the entry service the importer needs.
type EntryAdder interface {
	AddEntry(ctx context.Context, entry timesheet.Entry, actingUserID int64) (int64, error)
}

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsAdded      int
	RowsSkipped    int
	Rejected       []RowFailure
	AddedIDs       []int64
}

// RowFailure describes one row that was not added. Kind is KindUnknown when
// the row could not be parsed.
type RowFailure struct {
	File string
	Row  int
	Kind timesheet.Kind
	Err  error
}

func (f RowFailure) String() string {
	return fmt.Sprintf("%s row %d: %v", f.File, f.Row, f.Err)
}

// Run reads every file and adds each row through the entry service.
// Rejected rows are collected; a store failure stops the run and the partial
// result is returned together with the error.
func Run(ctx context.Context, adder EntryAdder, paths []string, format string, actingUserID int64) (*Result, error) {
	result := &Result{}
	for _, path := range paths {
		sourceFormat, err := InferFormat(path, format)
		if err != nil {
			return result, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return result, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return result, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if record.Empty() {
				result.RowsSkipped++
				continue
			}

			entry, mapErr := MapRecord(record, actingUserID)
			if mapErr != nil {
				result.Rejected = append(result.Rejected, RowFailure{File: path, Row: record.RowNumber, Kind: timesheet.KindUnknown, Err: mapErr})
				continue
			}

			id, addErr := adder.AddEntry(ctx, entry, actingUserID)
			if addErr != nil {
				if timesheet.IsStoreFault(addErr) {
					return result, fmt.Errorf("%s row %d: %w", path, record.RowNumber, addErr)
				}
				var tsErr *timesheet.Error
				if !errors.As(addErr, &tsErr) {
					return result, fmt.Errorf("%s row %d: %w", path, record.RowNumber, addErr)
				}
				result.Rejected = append(result.Rejected, RowFailure{File: path, Row: record.RowNumber, Kind: tsErr.Kind, Err: addErr})
				continue
			}

			result.RowsAdded++
			result.AddedIDs = append(result.AddedIDs, id)
		}
	}

	return result, nil
}
