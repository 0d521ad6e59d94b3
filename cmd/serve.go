package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heirloom-labs/heirloom/jsonrpc"
	"github.com/heirloom-labs/heirloom/ledger"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/spf13/cobra"
)

type ServeConfig struct {
	Addr    string
	DataDir string
}

var serveConfig ServeConfig

// serveCmd exposes a reference ledger over JSON-RPC for remote vault runs.
var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve a reference note ledger over JSON-RPC",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveLedger(serveConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.PersistentFlags().StringVarP(&serveConfig.Addr, "addr", "a", ":57291", "listen address")
	serveCmd.PersistentFlags().StringVarP(&serveConfig.DataDir, "data-dir", "d", "", "ledger data dir (empty for in-memory)")
}

func serveLedger(sc ServeConfig) error {
	var (
		l   *ledger.Ledger
		err error
	)
	if sc.DataDir != "" {
		l, err = ledger.NewOnDisk(sc.DataDir)
	} else {
		l, err = ledger.NewInMemory()
	}
	if err != nil {
		return err
	}

	server := jsonrpc.NewServer(sc.Addr, l)
	server.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info("SERVE CLI", "shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
