package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bytemomo/harpoon/internal/adapter/logger"
	"bytemomo/harpoon/internal/adapter/yamlconfig"
	"bytemomo/harpoon/internal/capability"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/modules"
	"bytemomo/harpoon/internal/service"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "harpoon",
		Short:         "Network discovery and exploit testing engine",
		Long:          "harpoon finds live hosts and open services in a range, then runs default-credential, anonymous-access and banner checks against a chosen service.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLoggerToStructured(logger.ParseLevel(viper.GetString("log-level")), viper.GetString("log-file"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to YAML config")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Also write logs to this file, rotated by size")
	flags.String("nmap", "", "Path to the nmap binary (looked up in PATH when empty)")
	flags.String("out", "", "Save results as JSON under this directory")
	flags.String("format", "auto", "Event output: auto, json or plain")
	for _, name := range []string{"config", "log-level", "log-file", "nmap", "out", "format"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// HARPOON_LOG_LEVEL, HARPOON_CONFIG, ...
	viper.SetEnvPrefix("HARPOON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(newSeekCmd())
	root.AddCommand(newEnterCmd())
	root.AddCommand(newModulesCmd())
	return root
}

// newService loads configuration, detects capabilities and registers the
// builtin modules.
func newService() (*service.Service, error) {
	cfg, err := yamlconfig.LoadConfig(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	modules.Init()
	caps := capability.Detect(cfg, viper.GetString("nmap"))
	return service.New(logrus.WithField("component", "service"), cfg, caps, exploit.Default)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// jsonEvents reports whether events should be written as JSON lines.
func jsonEvents(out *os.File) bool {
	switch viper.GetString("format") {
	case "json":
		return true
	case "plain":
		return false
	}
	fd := out.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
