package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	docmerger "github.com/nikitaxru/docmerger"
)

func main() {
	var cfg docmerger.Config
	flag.StringVar(&cfg.SpreadsheetPath, "data", "", "путь к книге Excel с данными")
	flag.StringVar(&cfg.TemplatePath, "template", "", "путь к шаблону .docx")
	flag.StringVar(&cfg.OutputDir, "out", "out", "каталог для готовых PDF")
	flag.StringVar(&cfg.DataSheet, "data-sheet", docmerger.DefaultDataSheet, "имя листа с записями")
	flag.StringVar(&cfg.DefaultsSheet, "defaults-sheet", docmerger.DefaultDefaultsSheet, "имя листа значений по умолчанию")
	flag.StringVar(&cfg.Filter, "filter", "", "выражение отбора записей (expr), например: City != \"\"")
	flag.BoolVar(&cfg.FailFast, "fail-fast", false, "останавливаться на первой ошибке записи")
	flag.Parse()

	if cfg.SpreadsheetPath == "" || cfg.TemplatePath == "" {
		fmt.Fprintln(os.Stderr, "нужны флаги -data и -template")
		flag.Usage()
		os.Exit(2)
	}

	res, err := docmerger.Generate(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("📄 Результаты в каталоге: %s", cfg.OutputDir)
	if res.Failed > 0 {
		os.Exit(1)
	}
}
