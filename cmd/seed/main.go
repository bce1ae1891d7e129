// Command seed loads the reference tax rules and templates. Safe to re-run.
package main

import (
	"context"
	"flag"
	"os"

	"taxclarity/internal/config"
	"taxclarity/internal/database"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"
	"taxclarity/internal/seed"
)

func main() {
	file := flag.String("file", "", "rules YAML to load instead of the built-in set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var rules []model.TaxRule
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal("read rules file", "file", *file, "error", err)
		}
		rules, err = seed.Parse(data)
		if err != nil {
			log.Fatal("invalid rules file", "file", *file, "error", err)
		}
	} else if rules, err = seed.Default(); err != nil {
		log.Fatal("invalid built-in rules", "error", err)
	}

	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	seeder := seed.NewSeeder(
		repository.NewTransactionManager(db),
		repository.NewTaxRuleRepository(db),
		repository.NewActionItemTemplateRepository(db),
		log,
	)
	if _, err := seeder.Apply(context.Background(), rules); err != nil {
		log.Fatal("seed failed", "error", err)
	}
}
