// Command issue-token mints a bearer token for the profile API using the
// configured auth secret.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yanqian/natal-chart/internal/domain/auth"
	"github.com/yanqian/natal-chart/internal/infra/config"
	"github.com/yanqian/natal-chart/pkg/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	subject := fs.String("subject", "", "profile owner the token is issued to")
	ttl := fs.Duration("ttl", 0, "token lifetime (defaults to auth.tokenTtl)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	authCfg := auth.Config{Secret: cfg.Auth.Secret, TokenTTL: cfg.Auth.TokenTTL}
	if *ttl > 0 {
		authCfg.TokenTTL = *ttl
	}
	return issue(authCfg, *subject, out)
}

func issue(cfg auth.Config, subject string, out io.Writer) error {
	svc := auth.NewService(cfg, logger.NewTo(os.Stderr))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	token, err := svc.IssueToken(ctx, subject)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}
