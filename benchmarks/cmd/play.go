package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridroboman/benchmarks/gridroboman"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/policies"
	"github.com/zeu5/gridroboman/util"
)

func PlayCommand() *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "play [task-id]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Watch one random rollout of a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Task = args[0]
			}
			task, err := gridroboman.ResolveTask(flags)
			if err != nil {
				return err
			}
			env, err := gridworld.New(task)
			if err != nil {
				return err
			}
			env.Reset(&flags.Seed)

			policy := policies.NewSeededRandomPolicy(flags.Seed)
			printer := util.NewTerminalPrinter(cmd.OutOrStdout(), delay)
			printer.Write(playFrame(gridworld.ID(task), env, 0, gridworld.NoOp, gridworld.StepResult{}))

			for step := 1; ; step++ {
				obs, info := env.Observe()
				state := &gridworld.State{Observation: obs, Mask: info.ActionMask, Grid: env.Grid()}
				action, ok := policy.PickAction(nil, state, state.Actions()).(gridworld.Action)
				if !ok {
					return fmt.Errorf("%w: random policy picked nothing", gridworld.ErrInvalidAction)
				}
				res, err := env.Step(action)
				if err != nil {
					return err
				}
				printer.Write(playFrame(gridworld.ID(task), env, step, action, res))
				if res.Terminated || res.Truncated {
					return nil
				}
			}
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 200*time.Millisecond, "Pause between frames")
	return cmd
}

func playFrame(id string, env *gridworld.Env, step int, action gridworld.Action, res gridworld.StepResult) string {
	grid := env.Grid()
	status := "running"
	switch {
	case res.Terminated:
		status = "solved"
	case res.Truncated:
		status = "out of time"
	}
	return fmt.Sprintf(
		"%s  step %d  action %s  reward %.0f  %s\n%s",
		id, step, action, res.Reward, status, grid.String(),
	)
}
