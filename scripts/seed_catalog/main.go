// Command seed_catalog loads a course catalog JSON dump into Postgres.
// The dump is an array of course objects in the API's wire shape; the
// sections list is stored as JSONB.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/gator-scheduler/schedule-api/internal/models"
	"github.com/gator-scheduler/schedule-api/internal/repository"
	"github.com/gator-scheduler/schedule-api/pkg/config"
	"github.com/gator-scheduler/schedule-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS courses (
    code          TEXT NOT NULL,
    name          TEXT NOT NULL,
    term_ind      TEXT NOT NULL DEFAULT ' ',
    description   TEXT NOT NULL DEFAULT '',
    prerequisites TEXT NOT NULL DEFAULT '',
    sections      JSONB NOT NULL DEFAULT '[]',
    PRIMARY KEY (code, term_ind)
);
CREATE INDEX IF NOT EXISTS idx_courses_code_prefix ON courses (code text_pattern_ops);
`

func main() {
	file := flag.String("file", "catalog.json", "path to the catalog JSON dump")
	truncate := flag.Bool("truncate", false, "wipe the courses table before loading")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var courses []models.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if *truncate {
		if _, err := db.ExecContext(ctx, "TRUNCATE courses"); err != nil {
			log.Fatalf("truncate courses: %v", err)
		}
	}

	inserted, err := load(ctx, db, courses)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	fmt.Printf("loaded %d courses from %s\n", inserted, *file)
}

func load(ctx context.Context, db *sqlx.DB, courses []models.Course) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx, `
INSERT INTO courses (code, name, term_ind, description, prerequisites, sections)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code, term_ind) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    prerequisites = EXCLUDED.prerequisites,
    sections = EXCLUDED.sections`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, course := range courses {
		code := repository.NormalizeCourseCode(course.Code)
		if code == "" {
			continue
		}
		termInd := course.TermIndicator
		if termInd == "" {
			termInd = " "
		}
		sections, err := json.Marshal(course.Sections)
		if err != nil {
			return 0, fmt.Errorf("marshal sections for %s: %w", code, err)
		}
		if _, err := stmt.ExecContext(ctx, code, course.Name, termInd, course.Description, course.Prerequisites, sections); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", code, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}
