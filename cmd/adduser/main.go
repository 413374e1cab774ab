// Command adduser registers an account directly against the configured
// store. It is meant for bootstrapping a fresh deployment from a terminal.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nuliana/getapet/internal/common"
	"github.com/nuliana/getapet/internal/logging"
	"github.com/nuliana/getapet/internal/server/config"
	"github.com/nuliana/getapet/internal/server/repositories/repomanager"
	"github.com/nuliana/getapet/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {

	cfg := config.LoadConfig()
	if cfg.SecretKey == "" {
		log.Fatal("no signing secret configured (set JWT_SECRET)")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	identity := services.NewIdentityService(db, m, cfg, logger)

	reader := bufio.NewReader(os.Stdin)
	out := os.Stdout

	name, err := promptText(reader, "Name", out)
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	email, err := promptText(reader, "Email", out)
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	phone, err := promptText(reader, "Phone", out)
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	password, err := promptPassword("Password", out)
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	confirm, err := promptPassword("Confirm password", out)
	if err != nil {
		log.Fatalf("input error: %v", err)
	}

	res, err := identity.Register(ctx, services.RegisterInput{
		Name:            name,
		Email:           email,
		Phone:           phone,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			log.Fatalf("invalid input: %s", ve.Message)
		}
		log.Fatalf("registration failed: %v", err)
	}

	fmt.Fprintf(out, "account created\nid: %s\ntoken: %s\n", res.AccountID, res.Token)
}
