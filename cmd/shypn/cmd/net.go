package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	shypn "github.com/simao-eugenio/shypn-sub007"
	"github.com/simao-eugenio/shypn-sub007/matrix"
)

var netCmd = &cobra.Command{
	Use:   "net",
	Short: "Print the demo net and its incidence matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		net := buildDemo()
		mgr, err := matrix.New(net)
		if err != nil {
			return err
		}

		fmt.Printf("net %s\n\nplaces:\n", net.Label)
		for _, p := range net.Places {
			line := fmt.Sprintf("  %-8s tokens=%g", p.Label, p.Tokens)
			if p.Bounded() {
				line += fmt.Sprintf(" capacity=%g", p.Capacity)
			}
			fmt.Println(line)
		}

		fmt.Println("\ntransitions:")
		for _, tr := range net.Transitions {
			line := fmt.Sprintf("  %-8s %s", tr.Label, timingLine(tr))
			if tr.Priority != 0 {
				line += fmt.Sprintf(" priority=%d", tr.Priority)
			}
			if tr.Guard != "" {
				line += fmt.Sprintf(" guard=%q", tr.Guard)
			}
			fmt.Println(line)
		}

		fmt.Println("\narcs:")
		for _, a := range net.Arcs {
			fmt.Println("  " + arcLine(net, a))
		}

		fmt.Printf("\nincidence (rows transitions, cols places):\n%v\n",
			mat.Formatted(mgr.IncidenceDense(), mat.Squeeze()))
		return nil
	},
}

func timingLine(tr *shypn.Transition) string {
	switch tr.Timing {
	case shypn.Timed:
		return fmt.Sprintf("timed delay=%g", tr.Delay)
	case shypn.Stochastic:
		s := fmt.Sprintf("stochastic rate=%g", tr.Rate)
		if tr.MaxBurst > 0 {
			s += fmt.Sprintf(" burst=%d", tr.MaxBurst)
		}
		return s
	case shypn.Continuous:
		return fmt.Sprintf("continuous rate=%g", tr.Rate)
	default:
		return "immediate"
	}
}

func arcLine(net *shypn.Net, a *shypn.Arc) string {
	name := func(r shypn.NodeRef) string {
		if r.Kind == shypn.PlaceNode {
			return net.Places[r.Index].Label
		}
		return net.Transitions[r.Index].Label
	}
	line := fmt.Sprintf("%s -> %s", name(a.Src), name(a.Dest))
	if a.Weight != 1 {
		line += fmt.Sprintf(" x%g", a.Weight)
	}
	switch a.Kind {
	case shypn.InhibitorArc:
		line += " (inhibitor)"
	case shypn.TestArc:
		line += " (test)"
	}
	return line
}

func init() {
	rootCmd.AddCommand(netCmd)
}
