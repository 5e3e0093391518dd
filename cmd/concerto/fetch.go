package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/concerto/internal/adapters/file"
	"github.com/aretw0/concerto/internal/adapters/redis"
	"github.com/aretw0/concerto/internal/cli"
	"github.com/aretw0/concerto/pkg/adapters/memory"
	"github.com/aretw0/concerto/pkg/adapters/remote"
	"github.com/aretw0/concerto/pkg/ports"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the upstream metamodel and update the local copy",
	Long: `Fetches the metamodel document from --url and writes it to --out when its
normalized content differs from the local copy. With redis.addr configured,
the Redis cache is updated too.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		flags := cmd.Flags()
		if flags.Changed("url") || cfg.Remote.URL == "" {
			cfg.Remote.URL, _ = flags.GetString("url")
		}
		if flags.Changed("out") {
			cfg.Remote.Out, _ = flags.GetString("out")
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		upstream := remote.New(cfg.Remote.URL)
		logger.Debug("Fetching metamodel", "url", upstream.URL())
		data, err := upstream.Load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// Fetched once, synced to every target.
		fetched := memory.NewStore(data)

		stores := map[string]ports.MetamodelStore{cfg.Remote.Out: file.New(cfg.Remote.Out)}
		if cfg.Redis.Addr != "" {
			rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Redis.TTL))
			defer rs.Close()
			stores["redis://"+cfg.Redis.Addr+"/"+rs.Key()] = rs
		}

		for name, store := range stores {
			logger.Debug("Syncing metamodel", "target", name)
			res, err := remote.Sync(ctx, fetched, store)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			switch {
			case res.Created:
				fmt.Printf("Created %s (sha256 %s)\n", name, res.Digest)
			case res.Updated:
				fmt.Printf("Updated %s (sha256 %s)\n", name, res.Digest)
			default:
				fmt.Printf("%s is up to date (sha256 %s)\n", name, res.Digest)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("url", remote.DefaultURL, "Upstream metamodel URL")
	fetchCmd.Flags().StringP("out", "o", "metamodel.json", "Local file to update")
}
