// exercisectl is the operator tool for the exercise store: it applies the
// schema, bulk-imports exercises from YAML and grants or revokes admin rights.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/domain/repository"
	"logic_exercises/internal/platform/config"
	"logic_exercises/internal/platform/database"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const usage = `Usage: exercisectl <command> [flags]

Commands:
  migrate                      apply the database schema
  import <file.yaml>           create every exercise listed in the file
  promote --name <name>        grant admin rights to users with that name (--revoke to remove)

Database flags (all commands):
  --driver string              pgx or sqlite3 (default from DB_DRIVER)
  --dsn string                 connection string, or file path for sqlite3
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}
	config.Load()

	switch args[0] {
	case "migrate":
		return runMigrate(args[1:], stdout)
	case "import":
		return runImport(args[1:], stdout)
	case "promote":
		return runPromote(args[1:], stdout)
	}
	return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
}

type dbFlags struct {
	driver string
	dsn    string
}

func newFlagSet(name string, db *dbFlags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&db.driver, "driver", config.AppConfig.DBDriver, "database driver (pgx or sqlite3)")
	flagSet.StringVar(&db.dsn, "dsn", "", "connection string, or file path for sqlite3")
	return flagSet
}

func (f dbFlags) open(ctx context.Context, migrate bool) (*sql.DB, error) {
	dsn := f.dsn
	if dsn == "" {
		dsn = config.AppConfig.DBConnStr
		if f.driver == database.DriverSQLite {
			dsn = config.AppConfig.DBSQLitePath
		}
	}
	db, err := database.Open(f.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", f.driver, err)
	}
	if migrate {
		if err := database.Migrate(ctx, db, f.driver); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}

func runMigrate(args []string, stdout io.Writer) error {
	var dbf dbFlags
	flagSet := newFlagSet("migrate", &dbf)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	db, err := dbf.open(context.Background(), true)
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Fprintf(stdout, "schema applied (%s)\n", dbf.driver)
	return nil
}

// exerciseFile is the import format: a list of exercises in the same shape as
// the JSON accepted by POST /api/exercises.
type exerciseFile struct {
	Exercises []service.ExerciseRequest `yaml:"exercises"`
}

func loadExerciseFile(r io.Reader) ([]service.ExerciseRequest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file exerciseFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("exercise file is empty")
		}
		return nil, fmt.Errorf("parse exercise file: %w", err)
	}
	if len(file.Exercises) == 0 {
		return nil, errors.New("exercise file lists no exercises")
	}
	for i, req := range file.Exercises {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("exercise %d (%q): %w", i, req.Title, err)
		}
	}
	return file.Exercises, nil
}

func runImport(args []string, stdout io.Writer) error {
	var dbf dbFlags
	var dryRun bool
	flagSet := newFlagSet("import", &dbf)
	flagSet.BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("import takes exactly one file argument")
	}

	f, err := os.Open(flagSet.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	requests, err := loadExerciseFile(f)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(stdout, "%d exercises valid\n", len(requests))
		return nil
	}

	ctx := context.Background()
	db, err := dbf.open(ctx, config.AppConfig.DBAutoMigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	// No preview cache here; cached listings expire after their TTL.
	exercises := service.NewExerciseService(repository.NewPgExerciseRepository(db), nil, db)
	for i, req := range requests {
		created, err := exercises.CreateExercise(ctx, req)
		if err != nil {
			return fmt.Errorf("import exercise %d (%q), %d imported before it: %w", i, req.Title, i, err)
		}
		fmt.Fprintf(stdout, "created exercise %d: %s (%d propositions)\n", created.ID, created.Title, len(created.Propositions))
	}
	log.Printf("INFO: imported %d exercises from %s", len(requests), flagSet.Arg(0))
	return nil
}

func runPromote(args []string, stdout io.Writer) error {
	var dbf dbFlags
	var name string
	var revoke bool
	flagSet := newFlagSet("promote", &dbf)
	flagSet.StringVar(&name, "name", "", "display name of the user(s) to change")
	flagSet.BoolVar(&revoke, "revoke", false, "remove admin rights instead of granting them")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := dbf.open(ctx, config.AppConfig.DBAutoMigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := service.NewUserService(repository.NewPgUserRepository(db)).SetAdminByName(ctx, name, !revoke)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "updated %d user(s) named %q: is_admin=%t\n", n, name, !revoke)
	return nil
}
