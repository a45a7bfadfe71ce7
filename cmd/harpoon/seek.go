package main

import (
	"errors"
	"os"

	"bytemomo/harpoon/internal/adapter/jsonstream"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seek",
		Short: "Discover live hosts and open services",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := viper.GetString("target")
			if target == "" {
				return errors.New("please provide --target")
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			progress := func(pct int, status string) {
				logrus.WithField("progress", pct).Info(status)
			}
			res, err := svc.StartSeek(ctx, target, viper.GetString("ports"), progress)
			if err != nil {
				return err
			}

			if dir := viper.GetString("out"); dir != "" {
				path, err := jsonstream.New(dir).SaveSeek(res)
				if err != nil {
					return err
				}
				logrus.WithField("path", path).Info("Seek result saved")
			}
			return jsonstream.WriteResult(os.Stdout, res)
		},
	}

	cmd.Flags().StringP("target", "t", "", "Address, CIDR block or last-octet range (10.0.0.1-20)")
	cmd.Flags().StringP("ports", "p", "", "Ports, e.g. 22,80,1000-2000 (config default when empty)")
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("ports", cmd.Flags().Lookup("ports"))
	return cmd
}
