package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/orand-network/ecvrf/internal/rpc"
	"github.com/orand-network/ecvrf/internal/storage"
)

var callCmd = &cobra.Command{
	Use:   "call <payload>",
	Short: "Handle a JSON-RPC payload",
	Long: `Decodes a payload such as

  {"method":"orand_newEpoch","params":["56"]}
  {"method":"orand_getPublicEpoch","params":["56","0"]}

and prints the resulting epoch as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, reg, err := newService(ctx, store)
		if err != nil {
			return err
		}
		defer svc.Close()
		defer logMetrics(reg)

		out, err := svc.HandleJSON(ctx, []byte(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var epochCmd = &cobra.Command{
	Use:   "epoch [number]",
	Short: "Create the next epoch of the configured network, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, reg, err := newService(ctx, store)
		if err != nil {
			return err
		}
		defer svc.Close()
		defer logMetrics(reg)

		p := rpc.Payload{
			Method: rpc.MethodNewEpoch,
			Params: []string{fmt.Sprint(cfg.Network)},
		}
		if len(args) == 1 {
			p.Method = rpc.MethodGetPublicEpoch
			p.Params = append(p.Params, args[0])
		}
		req, err := p.Request()
		if err != nil {
			return err
		}
		res, err := svc.Handle(ctx, req)
		if err != nil {
			return err
		}
		report(cmd.OutOrStdout(), res)
		return nil
	},
}

func report(w io.Writer, res *rpc.EpochResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"field", "value"})
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"network", fmt.Sprint(res.Network)},
		{"epoch", fmt.Sprint(res.Epoch)},
		{"verified", fmt.Sprint(res.Verified)},
		{"alpha", res.Alpha},
		{"gamma", res.Gamma},
		{"c", res.C},
		{"s", res.S},
		{"y", res.Y},
		{"public key", res.PublicKey},
	})
	table.Render()
}

func newService(ctx context.Context, store *storage.Store) (*rpc.Service, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	svc, err := rpc.NewService(ctx, store, reg)
	return svc, reg, err
}

func logMetrics(g prometheus.Gatherer) {
	if !glog.V(1) {
		return
	}
	families, err := g.Gather()
	if err != nil {
		glog.Warningf("gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			glog.Infof("%v%v %v", mf.GetName(), labels, m.GetCounter().GetValue())
		}
	}
}

func init() {
	RootCmd.AddCommand(callCmd)
	RootCmd.AddCommand(epochCmd)
}
