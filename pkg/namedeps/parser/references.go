package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

// builtinNamePrefix marks names Excel reserves for itself (print areas, filters).
const builtinNamePrefix = "_xlnm."

// DestinationError represents a failure resolving one destination of a defined name.
type DestinationError struct {
	File      string
	Name      string
	Sheet     string
	CellRange string
	Err       error
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("name %q in %s (%s!%s): %v", e.Name, e.File, e.Sheet, e.CellRange, e.Err)
}

func (e *DestinationError) Unwrap() error {
	return e.Err
}

// ExtractReferences walks the defined-name table of wb and returns one
// reference per (name, destination) pair, keyed without a file component.
// Failures are collected per destination and never stop the walk.
func ExtractReferences(wb Workbook, file string, logger *slog.Logger) (*models.Collection, []*DestinationError) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	refs := models.NewCollection(false)
	var failures []*DestinationError

	for _, dn := range wb.DefinedNames() {
		if strings.HasPrefix(dn.Name, builtinNamePrefix) {
			continue
		}
		if dn.External || strings.TrimSpace(dn.RefersTo) == "" {
			logger.Debug("skipping defined name",
				slog.String("file", file),
				slog.String("name", dn.Name),
				slog.Bool("external", dn.External))
			continue
		}

		dests, err := wb.Destinations(dn)
		if err != nil {
			failures = append(failures, &DestinationError{File: file, Name: dn.Name, Err: err})
			continue
		}
		if len(dests) == 0 {
			logger.Debug("defined name has no cell destination",
				slog.String("file", file),
				slog.String("name", dn.Name),
				slog.String("refers_to", dn.RefersTo))
			continue
		}

		for i, dest := range dests {
			ref, err := resolveDestination(wb, file, dn, dest, i+1)
			if err == nil {
				err = refs.Add(ref)
			}
			if err != nil {
				de := &DestinationError{
					File:      file,
					Name:      dn.Name,
					Sheet:     dest.Sheet,
					CellRange: dest.CellRange,
					Err:       err,
				}
				logger.Warn("skipping destination", slog.String("error", de.Error()))
				failures = append(failures, de)
				continue
			}
			logger.Debug("extracted reference",
				slog.String("key", ref.Key),
				slog.Bool("computed", ref.IsComputed()))
		}
	}

	return refs, failures
}

// resolveDestination reads the top-left cell of one destination.
func resolveDestination(wb Workbook, file string, dn DefinedName, dest Destination, index int) (models.NamedReference, error) {
	coord, err := TopLeftCell(dest.CellRange)
	if err != nil {
		return models.NamedReference{}, err
	}
	cell, err := wb.Cell(dest.Sheet, coord)
	if err != nil {
		return models.NamedReference{}, err
	}

	scopeSheet := ""
	if dn.Scope != models.ScopeWorkbook {
		scopeSheet = dn.Scope
	}
	ref := models.NamedReference{
		Key:       models.QualifiedKey("", scopeSheet, dn.Name, index),
		Label:     dn.Name,
		Scope:     dn.Scope,
		Sheet:     dest.Sheet,
		CellRange: dest.CellRange,
		File:      file,
	}
	if cell.IsFormula() {
		ref.Formula = NormalizeFormula(cell.Formula)
	}
	if cell.Value != "" {
		ref.Value = parseValue(cell.Value)
	}
	return ref, nil
}
