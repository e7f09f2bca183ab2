package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crew-agent/internal/di"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/env"
	"crew-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
)

const runTimeout = 30 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crew-agent",
		Short:        "Tool-using agent with a planner/executor/synthesizer crew mode",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newRunCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := di.LoadConfig(env.NewEnvService())
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			container, err := di.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return container.HTTP.ListenAndServe(ctx, cfg.HTTPAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func newWorkerCmd() *cobra.Command {
	var (
		addr     string
		headless bool
	)

	cmd := &cobra.Command{
		Use:   "browser-worker",
		Short: "Run the browser worker that executes browser commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := di.LoadConfig(env.NewEnvService())
			if addr != "" {
				cfg.WorkerAddr = addr
			}
			if cmd.Flags().Changed("headless") {
				cfg.BrowserHeadless = headless
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			worker, err := di.NewBrowserWorker(ctx, cfg)
			if err != nil {
				return err
			}
			defer worker.Close()

			return worker.Server.ListenAndServe(ctx, cfg.WorkerAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides BROWSER_WORKER_ADDR)")
	cmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a window")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		mode    string
		backend string
		model   string
		apiKey  string
		tools   []string
	)

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Run one goal in the terminal",
		Long:  "Run one goal and render its progress. The prompt is read from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				fmt.Println("\nEnter a task for the agent:")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read prompt: %w", err)
				}
				prompt = strings.TrimSpace(line)
			}
			if prompt == "" {
				return errors.New("prompt is required")
			}

			cfg := di.LoadConfig(env.NewEnvService())
			cfg.AccessLog = false

			container, err := di.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			if len(tools) == 0 {
				for _, t := range container.Tools.All() {
					tools = append(tools, string(t.Name()))
				}
			}

			goal := entity.Goal{
				Prompt:       prompt,
				Backend:      entity.Backend(strings.ToLower(backend)),
				ModelName:    model,
				APIKey:       apiKey,
				EnabledTools: tools,
				Mode:         entity.ParseMode(mode),
			}
			if err := container.Orchestrator.Validate(goal); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			container.Logger.Info("Task started", "task", prompt, "mode", string(goal.Mode))
			renderer := userinteraction.NewConsoleRenderer(os.Stdout)
			return container.Orchestrator.Execute(ctx, goal, renderer)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(entity.ModeSingle), "agent or crew")
	cmd.Flags().StringVar(&backend, "backend", string(entity.BackendOllama), "ollama, aistudio, nvidia or openrouter")
	cmd.Flags().StringVar(&model, "model", "", "model name (defaults to DEFAULT_MODEL)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to the backend's env key)")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "enabled tools (defaults to all)")
	return cmd
}
