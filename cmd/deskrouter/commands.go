package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/server"
	"github.com/novatech-ai/deskrouter/vectordb"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			if cfg.Ingest.Path != "" {
				n, err := a.ingestor.IngestFile(cmd.Context(), cfg.Ingest.Path)
				if err != nil {
					return err
				}
				logger.Infof("serve: ingested %d fragments from %s", n, cfg.Ingest.Path)
			}
			srv := server.New(a.pipeline, a.router, prometheus.NewRegistry())
			return srv.Run(cfg.Server.Addr)
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a query, or start an interactive loop when no query is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return askOnce(cmd.Context(), a, args[0])
			}
			return askLoop(cmd.Context(), a)
		},
	}
}

func askOnce(ctx context.Context, a *app, query string) error {
	result, err := a.pipeline.Run(ctx, query)
	if err != nil {
		return err
	}
	fmt.Println(result.Answer)
	return nil
}

func askLoop(ctx context.Context, a *app) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter query (type 'exit' to stop): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") {
			return nil
		}
		result, err := a.pipeline.Run(ctx, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\nFinal Response:\n\n%s\n", result.Answer)
	}
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <query>",
		Short: "Show the routing decision without answering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			decision := a.router.Route(cmd.Context(), args[0])
			fmt.Printf("state: %s\n", decision.State)
			for _, d := range decision.Departments {
				fmt.Printf("- %s\n", d)
			}
			return nil
		},
	}
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Index a policy document into the vector store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			n, err := a.ingestor.IngestFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if mem, ok := a.store.(*vectordb.MemoryStore); ok {
				if err := mem.Save(); err != nil {
					return err
				}
			}
			fmt.Printf("indexed %d fragments\n", n)
			return nil
		},
	}
}
