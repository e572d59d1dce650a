package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub007/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo production line",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := buildLogger(s.Level())
		defer func() { _ = logger.Sync() }()

		net := buildDemo()
		ctrl := sim.New(net, sim.WithLogger(logger), sim.WithSettings(s))
		if err := ctrl.Initialize(); err != nil {
			return err
		}
		last, err := ctrl.Run(s.Steps, s.Dt)
		if err != nil {
			return err
		}

		stats := ctrl.Stats()
		fmt.Printf("run %s: %s after %d steps at t=%.3f\n",
			ctrl.RunID(), last.Phase, stats.Steps, stats.Time)
		fmt.Printf("discrete firings %d, continuous volume %.3f\n",
			stats.TotalFirings, stats.FlowVolume)
		for i, tr := range net.Transitions {
			fmt.Printf("  %-8s %6d\n", tr.Label, stats.Firings[i])
		}
		fmt.Printf("marking %s\n", ctrl.Marking())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
