package main

import (
	"context"
	"encoding/json"
	"fmt"

	"govcheck/internal/config"
	"govcheck/internal/verifier"
	"govcheck/pkg/domain"
	"govcheck/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCommand constructs the 'check' subcommand: a one-shot trust check for
// a single URL, printing the verdict as JSON.
func checkCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Runs the trust check for one URL and prints the verdict",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			allow := loadWhitelist(ctx, cfg)
			svc := verifier.New(allow, nil, verifier.NewOptions(cfg))

			verdict, err := svc.Verify(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "verification failed", zap.Error(err))
			}

			out, err := json.MarshalIndent(struct {
				domain.TrustVerdict
				Trusted bool `json:"trusted"`
			}{TrustVerdict: *verdict, Trusted: verdict.Trusted()}, "", "  ")
			if err != nil {
				logger.Fatal(ctx, "could not encode verdict", zap.Error(err))
			}

			fmt.Println(string(out)) //nolint: forbidigo
		},
	}

	return cmd
}
