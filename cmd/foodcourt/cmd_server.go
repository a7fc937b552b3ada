package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodcourt/config"
	"github.com/shashiranjanraj/foodcourt/internal/kernel"
	"github.com/shashiranjanraj/foodcourt/internal/server"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/migration"
)

var serveMigrateFlag bool

// foodcourt serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := k.Close(); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		if serveMigrateFlag {
			if _, err := migration.New(k.DB, cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
		}

		go k.RunJanitor(ctx)

		fmt.Fprintf(cmd.OutOrStdout(), "foodcourt running on :%s (%s)\n", config.AppPort(), config.AppEnv())
		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

// foodcourt route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout(), kernel.New(kernel.Options{}))
	},
}

func printRoutes(out io.Writer, k *kernel.Kernel) error {
	infos := k.Router().Routes()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrateFlag, "migrate", false, "Run pending migrations before serving")
}
