package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pscheid92/rogrow/internal/adapter/postgres"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/crypto"
	"github.com/pscheid92/rogrow/internal/platform/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Optional directory columns in data_siswa.csv.
const (
	colPhone     = "No Telepon"
	colParentNIK = "NIK Orangtua"
	colEmail     = "Email"
)

type studentUpserter interface {
	Upsert(ctx context.Context, rec domain.StudentRecord) (*domain.StudentRecord, error)
}

func newImportStudentsCmd(opts *options) *cobra.Command {
	var (
		file        string
		concurrency int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "import-students",
		Short: "Upsert the students of data_siswa.csv into Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if file == "" {
				file = filepath.Join(cfg.DataDir, dataset.StudentsFile)
			}

			frame, err := dataset.ReadCSVFile(file)
			if err != nil {
				return err
			}
			records, err := recordsFromFrame(frame)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d students parsed from %s\n", len(records), file)
				return nil
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required for import-students")
			}

			cipher, err := crypto.New(cfg.PIIEncryptionKey)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			pool, err := postgres.Connect(ctx, cfg.DatabaseURL, nil)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
				return err
			}

			n, err := importStudents(ctx, postgres.NewStudentRepo(pool, cipher), records, concurrency)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d students imported\n", n, len(records))
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file to import (default: DATA_DIR/data_siswa.csv)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel upserts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the file without writing to the database")
	return cmd
}

// recordsFromFrame maps student rows to directory records. Rows without a NIS
// are skipped; a repeated NIS keeps the last row.
func recordsFromFrame(f *dataset.Frame) ([]domain.StudentRecord, error) {
	nisIdx, nameIdx := f.Index(dataset.ColNIS), f.Index(dataset.ColName)
	if nisIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("missing required columns %q and %q", dataset.ColNIS, dataset.ColName)
	}
	phoneIdx, nikIdx, emailIdx := f.Index(colPhone), f.Index(colParentNIK), f.Index(colEmail)

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	byNIS := make(map[string]int)
	var records []domain.StudentRecord
	for _, row := range f.Rows {
		rec := domain.StudentRecord{
			NIS:       cell(row, nisIdx),
			FullName:  cell(row, nameIdx),
			Phone:     cell(row, phoneIdx),
			ParentNIK: cell(row, nikIdx),
			Email:     cell(row, emailIdx),
		}
		if rec.NIS == "" {
			continue
		}
		if i, ok := byNIS[rec.NIS]; ok {
			records[i] = rec
			continue
		}
		byNIS[rec.NIS] = len(records)
		records = append(records, rec)
	}
	return records, nil
}

// importStudents upserts records with at most concurrency writers and
// returns how many succeeded. The first failure cancels the rest.
func importStudents(ctx context.Context, repo studentUpserter, records []domain.StudentRecord, concurrency int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var imported atomic.Int64
	for _, rec := range records {
		g.Go(func() error {
			if _, err := repo.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("failed to import student %s: %w", rec.NIS, err)
			}
			imported.Add(1)
			logging.WithStudent(rec.NIS).DebugContext(ctx, "Student imported")
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		slog.ErrorContext(ctx, "Student import stopped", "error", err)
	}
	return int(imported.Load()), err
}
