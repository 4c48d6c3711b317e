package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tuannm99/novatuple/internal"
	"github.com/tuannm99/novatuple/internal/catalog"
)

func main() {
	cfgPath := flag.String("config", "./novatuple.yaml", "Path to the relations config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Info("config loaded",
		"app", cfg.AppName,
		"relations", len(cfg.Relations),
		"joins", len(cfg.Joins),
	)

	cat := catalog.New(logger)
	for _, rel := range cfg.Relations {
		td, err := rel.TupleDesc(cfg.Types.StringLen)
		if err != nil {
			log.Fatalf("build schema: %v", err)
		}
		if _, err := cat.CreateTable(rel.Name, td); err != nil {
			log.Fatalf("create table: %v", err)
		}
	}

	for _, name := range cat.Tables() {
		meta, err := cat.Table(name)
		if err != nil {
			log.Fatalf("lookup %s: %v", name, err)
		}
		fmt.Printf("%-16s id=%-3d fields=%-3d size=%-5d hash=%016x  %s\n",
			name, meta.ID, meta.Desc.NumFields(), meta.Desc.Size(), meta.Desc.Hash(), meta.Desc)

		if same := cat.TablesWithSchema(meta.Desc); len(same) > 1 {
			logger.Debug("shared schema", "table", name, "tables", same)
		}
	}

	for _, j := range cfg.Joins {
		joined, err := cat.JoinSchema(j.Left, j.Right)
		if err != nil {
			logger.Warn("skip join", "left", j.Left, "right", j.Right, "err", err)
			continue
		}
		fmt.Printf("%s JOIN %s: fields=%d size=%d  %s\n",
			j.Left, j.Right, joined.NumFields(), joined.Size(), joined)
	}
}
