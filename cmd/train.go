package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/goaclib/goac/agent/actorcritic"
	"github.com/goaclib/goac/environment/cartpole"
	"github.com/goaclib/goac/experiment"
	"github.com/goaclib/goac/policy"
	"github.com/goaclib/goac/telemetry"
)

// TrainCommand returns the command which collects rollouts on the
// batched cartpole environment.
func TrainCommand() *cobra.Command {
	var workers int
	var steps int
	var horizon int
	var windowLength int
	var smoothLength int
	var discount float64
	var lambda float64
	var hidden int
	var seed uint64
	var dashboard string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Collect rollouts on batched cartpole",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cartpole.New(workers, seed)
			if err != nil {
				return fmt.Errorf("train: could not create environment: %v",
					err)
			}

			features := env.ObsDims() * windowLength
			model, err := policy.NewCategoricalMLP(features, workers,
				env.Actions(), []int{hidden, hidden}, seed)
			if err != nil {
				return fmt.Errorf("train: could not create model: %v", err)
			}
			defer model.Close()

			recorder := telemetry.NewRecorder(saveFile)
			var sink telemetry.Sink = recorder
			if dashboard != "" {
				ws := telemetry.NewWebSocket()
				http.HandleFunc("/ws", ws.Handler())
				go func() {
					if err := http.ListenAndServe(dashboard, nil); err != nil {
						fmt.Println("dashboard server stopped:", err)
					}
				}()
				sink = telemetry.Multi{recorder, ws}
			}

			a, err := actorcritic.New(model, nil, sink, workers,
				actorcritic.Config{
					Discount:         discount,
					GAELambda:        lambda,
					NumFramesPerProc: horizon,
					WindowLength:     windowLength,
					SmoothLength:     smoothLength,
				})
			if err != nil {
				return fmt.Errorf("train: could not create agent: %v", err)
			}

			rollout, err := experiment.NewRollout(env, a, nil, horizon, steps)
			if err != nil {
				return fmt.Errorf("train: %v", err)
			}
			if err := rollout.Run(); err != nil {
				return fmt.Errorf("train: %v", err)
			}

			recorder.Save()
			fmt.Printf("completed %v episodes over %v steps\n",
				totalEpisodes(a), steps)
			return nil
		},
	}
	cmd.PersistentFlags().IntVarP(&workers, "workers", "w", 16,
		"Number of parallel workers")
	cmd.PersistentFlags().IntVar(&steps, "steps", 100000,
		"Total batched environment steps to run")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", 128,
		"Timesteps collected per rollout")
	cmd.PersistentFlags().IntVar(&windowLength, "window", 1,
		"Number of observation frames stacked per state")
	cmd.PersistentFlags().IntVar(&smoothLength, "smooth", 100,
		"Number of recent episodes averaged for reward smoothing")
	cmd.PersistentFlags().Float64Var(&discount, "discount", 0.99,
		"Reward discount rate")
	cmd.PersistentFlags().Float64Var(&lambda, "lambda", 0.95,
		"Advantage estimation decay rate")
	cmd.PersistentFlags().IntVar(&hidden, "hidden", 64,
		"Hidden units per network layer")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 1,
		"Random seed for the environment and policy")
	cmd.PersistentFlags().StringVar(&dashboard, "dashboard", "",
		"Address to serve the live statistics websocket on (empty disables)")
	return cmd
}

func totalEpisodes(a *actorcritic.ACAgent) int {
	total := 0
	for w := 0; w < a.Workers(); w++ {
		total += a.Tracker().EpisodeCount(w)
	}
	return total
}
