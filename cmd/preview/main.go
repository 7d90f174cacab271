// Command preview prints the printable layout of a session to stdout.
//
// Usage:
//
//	preview [-html] [session-id]
//
// Without an id the current session is printed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/config"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/preview"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/store"
)

func main() {
	asHTML := flag.Bool("html", false, "render an A4 HTML page instead of text")
	flag.Parse()

	if err := run(context.Background(), flag.Arg(0), *asHTML); err != nil {
		fmt.Fprintf(os.Stderr, "preview: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, id string, asHTML bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	kv, err := store.OpenKeyValue(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer kv.Close()

	repo := sessions.NewRepository(store.NewGateway(kv, logger), logger)

	var sess *models.Session
	if id == "" {
		sess, err = repo.CurrentSession(ctx)
		if err == nil && sess == nil {
			return errors.New("no current session")
		}
	} else {
		sess, err = repo.GetSession(ctx, id)
	}
	if err != nil {
		return err
	}

	doc := preview.Build(*sess)
	if asHTML {
		return preview.RenderHTML(os.Stdout, doc)
	}
	_, err = fmt.Fprint(os.Stdout, preview.RenderText(doc))
	return err
}
