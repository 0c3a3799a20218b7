// Command analyze prints the analytics of one marketplace CSV export as JSON
// without touching a database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

func main() {
	kindFlag := flag.String("kind", "", "export kind: inventory|sold|unsold")
	file := flag.String("file", "-", "csv file path, - for stdin")
	pool := flag.Bool("pool-unknown", false, "pool sales without a buyer into one customer")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "analyze", Output: os.Stderr})
	ctx := context.Background()
	_ = godotenv.Load()

	var cfg config.AnalyticsConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logg.Error(ctx, "failed to load analytics config", err)
		os.Exit(1)
	}

	kind, err := enums.ParseDataKind(*kindFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	text, err := readInput(*file)
	if err != nil {
		logg.Error(logg.WithField(ctx, "file", *file), "failed to read csv", err)
		os.Exit(1)
	}

	report, err := analytics.AnalyzeCSV(kind, text, time.Now().In(cfg.Location()), analytics.CSVOptions{
		PoolUnknown:  *pool || cfg.PoolUnidentifiedBuyers,
		QualifiedMin: cfg.QualifiedCollectionMin,
	})
	if err != nil {
		logg.Error(logg.WithUploadKind(ctx, kind.String()), "analysis failed", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logg.Error(ctx, "failed to write report", err)
		os.Exit(1)
	}
}

func readInput(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(raw), "\ufeff"), nil
}
