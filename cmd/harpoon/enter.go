package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bytemomo/harpoon/internal/adapter/jsonstream"
	"bytemomo/harpoon/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newEnterCmd() *cobra.Command {
	var (
		target  string
		port    uint16
		svcName string
		module  string
		from    string
		opts    []string
	)

	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Run an exploit module against one service and stream its events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" || port == 0 {
				return errors.New("please provide --target and --port")
			}
			options, err := parseOptions(opts)
			if err != nil {
				return err
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			var scanID string
			if from != "" {
				seek, err := jsonstream.LoadSeek(from)
				if err != nil {
					return err
				}
				if err := svc.ImportSeek(seek); err != nil {
					return err
				}
				scanID = seek.ScanID
			}

			ctx, cancel := signalContext()
			defer cancel()

			sess, err := svc.StartEnter(ctx, domain.EnterRequest{
				ScanID:    scanID,
				TargetIP:  target,
				Port:      port,
				Service:   svcName,
				ExploitID: module,
				Options:   options,
			})
			if err != nil {
				return err
			}

			w := jsonstream.NewEventWriter(os.Stdout, jsonEvents(os.Stdout))
			if _, err := w.Relay(sess.Events); err != nil {
				return fmt.Errorf("write events: %w", err)
			}
			if ctx.Err() != nil {
				return fmt.Errorf("session %s cancelled", sess.ID)
			}

			res, ok := svc.GetEnterResult(sess.ID)
			if !ok {
				return fmt.Errorf("session %s produced no result", sess.ID)
			}
			if dir := viper.GetString("out"); dir != "" {
				path, err := jsonstream.New(dir).SaveEnter(res)
				if err != nil {
					return err
				}
				logrus.WithField("path", path).Info("Enter result saved")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target IP address")
	cmd.Flags().Uint16VarP(&port, "port", "p", 0, "Target TCP port")
	cmd.Flags().StringVarP(&svcName, "service", "s", "", "Service name as reported by seek")
	cmd.Flags().StringVar(&from, "from", "", "Saved seek result (seeks/<scan_id>.json); the target must be one of its services")
	cmd.Flags().StringVarP(&module, "module", "m", domain.AutoExploit, "Module id, or auto")
	cmd.Flags().StringArrayVar(&opts, "opt", nil, "Module option key=value, repeatable")
	return cmd
}

// parseOptions turns key=value pairs into module params. Integers and
// booleans are converted; everything else stays a string.
func parseOptions(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --opt %q, want key=value", p)
		}
		if i, err := strconv.Atoi(v); err == nil {
			out[k] = i
		} else if b, err := strconv.ParseBool(v); err == nil {
			out[k] = b
		} else {
			out[k] = v
		}
	}
	return out, nil
}
