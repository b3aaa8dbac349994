// Package importer turns uploaded bank, card and invoice exports into ledger rows.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/models"
)

// Options describe one upload.
type Options struct {
	// Target is the upload's target_tab; empty lets the headers decide.
	Target        string
	FileName      string
	AccountSource string
}

// Result is the outcome of a batch. Rows are applied one at a time, so a
// skipped row never undoes the rows imported before it.
type Result struct {
	BatchID    string                  `json:"batch_id"`
	Format     string                  `json:"format"`
	Kind       ledger.SourceKind       `json:"kind"`
	Imported   int                     `json:"imported"`
	Duplicates int                     `json:"duplicates"`
	Skipped    []ledger.ImportRowError `json:"skipped"`
	Warnings   []string                `json:"warnings"`
	Message    string                  `json:"message"`
}

type Importer struct {
	store  *ledger.Store
	policy ledger.DuplicatePolicy
	log    *slog.Logger
	now    func() time.Time
}

func New(store *ledger.Store, policy ledger.DuplicatePolicy, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{store: store, policy: policy, log: log, now: time.Now}
}

// Import decodes a CSV upload, picks its format and imports every row.
// Errors are returned only when nothing could be imported at all: an
// unreadable file, an unknown format, or a file sent to the wrong target.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	target, err := ledger.ParseTarget(opts.Target)
	if err != nil {
		return Result{}, err
	}
	header, rows, err := Decode(r)
	if err != nil {
		return Result{}, &ledger.ValidationError{Field: "file", Reason: err.Error()}
	}
	format, err := ledger.DetectFormat(header, target)
	if err != nil {
		return Result{}, err
	}
	return im.ImportRows(ctx, format, rows, opts)
}

// ImportRows imports already-decoded rows of a known format.
func (im *Importer) ImportRows(ctx context.Context, format ledger.SourceFormat, rows []Record, opts Options) (Result, error) {
	res := Result{
		BatchID:  uuid.NewString(),
		Format:   format.Name,
		Kind:     format.Kind,
		Skipped:  []ledger.ImportRowError{},
		Warnings: []string{},
	}
	nopts := ledger.NormalizeOptions{
		AccountSource: opts.AccountSource,
		FallbackDate:  im.dateFromFileName(opts.FileName),
	}
	log := im.log.With("batch", res.BatchID, "format", format.Name, "file", opts.FileName)

	for i, rec := range rows {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import interrupted after %d rows: %w", i, err)
		}
		n, row := rec.Num, rec.Row
		if row.Blank() {
			continue
		}

		norm, err := ledger.Normalize(format, row, nopts)
		if err != nil {
			res.Skipped = append(res.Skipped, ledger.ImportRowError{Row: n, Reason: err.Error()})
			continue
		}
		for _, w := range norm.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: %s", n, w))
		}

		if norm.Invoice != nil {
			err = im.store.InsertInvoice(ctx, *norm.Invoice, res.BatchID, im.policy)
		} else {
			err = im.store.InsertEntry(ctx, norm.Kind, *norm.Entry, res.BatchID, im.policy)
		}
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, ledger.ErrDuplicate):
			res.Duplicates++
			res.Skipped = append(res.Skipped, ledger.ImportRowError{Row: n, Reason: err.Error()})
		default:
			log.Error("import row failed", "row", n, "error", err)
			res.Skipped = append(res.Skipped, ledger.ImportRowError{Row: n, Reason: "could not be stored"})
		}
	}

	res.Message = fmt.Sprintf("%s processed: %d imported, %d skipped", format.Label, res.Imported, len(res.Skipped))

	batch := models.ImportBatch{
		ID:            res.BatchID,
		Kind:          string(format.Kind),
		Format:        format.Name,
		FileName:      filepath.Base(opts.FileName),
		AccountSource: opts.AccountSource,
		Imported:      res.Imported,
		Skipped:       len(res.Skipped),
		Warnings:      len(res.Warnings),
	}
	if batch.AccountSource == "" {
		batch.AccountSource = format.AccountSource
	}
	if err := im.store.RecordBatch(ctx, &batch); err != nil {
		log.Warn("import history not saved", "error", err)
	}

	log.Info("import finished", "imported", res.Imported, "skipped", len(res.Skipped), "duplicates", res.Duplicates, "warnings", len(res.Warnings))
	return res, nil
}

var (
	fileFullDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	fileDatePattern     = regexp.MustCompile(`(\d{1,2})-(\d{1,2})`)
)

// dateFromFileName reads an MM-DD stamp from names like "usfoods 03-14.csv"
// and places it in the current year. Without one the import is dated today.
func (im *Importer) dateFromFileName(name string) string {
	now := im.now()
	today := now.Format(ledger.DateLayout)
	base := filepath.Base(name)
	if full := fileFullDatePattern.FindString(base); full != "" {
		if date, err := ledger.ParseDate(full); err == nil {
			return date
		}
	}
	m := fileDatePattern.FindStringSubmatch(base)
	if m == nil {
		return today
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	candidate := fmt.Sprintf("%04d-%02d-%02d", now.Year(), month, day)
	if date, err := ledger.ParseDate(candidate); err == nil {
		return date
	}
	return today
}
