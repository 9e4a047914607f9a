package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"farmeradmin/api"
	"farmeradmin/logger"
	"farmeradmin/metrics"
	"farmeradmin/monitor"
	"farmeradmin/mqtt"
	"farmeradmin/websocket"
)

func (c *cli) servicesCmd() *cobra.Command {
	services := &cobra.Command{Use: "services", Short: "Generate and track AI services"}

	var req api.ServiceGenerationRequest
	var watch bool
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Start generating a service from a requirement",
		RunE: c.page("/service/generate", func(cmd *cobra.Command, app *App, args []string) error {
			if req.Requirement == "" || req.ProductCategory == "" {
				return fmt.Errorf("--requirement and --category are required")
			}
			job, err := app.api.GenerateService(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := printJSON(c.out, job); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return app.Watch(cmd.Context(), job.ServiceID)
		}),
	}
	generate.Flags().StringVar(&req.Requirement, "requirement", "", "What the service should do")
	generate.Flags().StringVar(&req.ProductCategory, "category", "", "Product category the service is for")
	generate.Flags().StringVar(&req.Model, "model", "", "Model to generate with")
	generate.Flags().BoolVar(&watch, "watch", false, "Follow generation progress until it finishes")

	status := &cobra.Command{
		Use:   "status <id>",
		Short: "Show generation status",
		Args:  cobra.ExactArgs(1),
		RunE: c.page("/service/list", func(cmd *cobra.Command, app *App, args []string) error {
			s, err := app.api.ServiceStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(c.out, s)
		}),
	}

	var params api.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List services",
		RunE: c.page("/service/list", func(cmd *cobra.Command, app *App, args []string) error {
			page, err := app.api.ListServices(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(c.out, page)
		}),
	}
	addPageFlags(list, &params)

	watchCmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Follow generation progress over the service channel",
		Args:  cobra.ExactArgs(1),
		RunE: c.page("/service/list", func(cmd *cobra.Command, app *App, args []string) error {
			return app.Watch(cmd.Context(), args[0])
		}),
	}

	services.AddCommand(generate, status, list, watchCmd)
	return services
}

// Watch follows one service until it finishes. Metrics are served and
// events relayed to MQTT when configured.
func (a *App) Watch(ctx context.Context, serviceID string) error {
	registry := prometheus.NewRegistry()
	wsMetrics := metrics.NewMetrics(registry, map[string]string{"service_id": serviceID})

	listeners := monitor.Listeners{&consoleListener{out: a.out, logger: a.logger}}

	var relay *mqtt.Relay
	if a.config.MQTT.Enabled {
		client := mqtt.NewPahoClient(&a.config.MQTT, a.logger)
		if err := client.Connect(); err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		defer func() {
			if err := client.Disconnect(); err != nil {
				a.logger.Error("Failed to disconnect from MQTT broker: %v", err)
			}
		}()
		relay = mqtt.NewRelay(client, &a.config.MQTT, a.logger)
		listeners = append(listeners, relay)
	}

	mon := monitor.New(serviceID, &a.config.Service, listeners, a.logger, websocket.WithMetrics(wsMetrics))

	if relay != nil && a.config.MQTT.CommandsEnabled {
		if err := relay.SubscribeCommands(serviceID, mon.HandleCommand); err != nil {
			a.logger.Warn("Failed to subscribe to commands for service %s: %v", serviceID, err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		defer cancel()
		return mon.Run(gctx)
	})

	if addr := a.config.Metrics.Address; addr != "" {
		g.Go(func() error {
			a.logger.Info("Serving metrics on %s/metrics", addr)
			return metrics.Serve(gctx, addr, registry)
		})
	}

	return g.Wait()
}

type consoleListener struct {
	out    io.Writer
	logger logger.Logger
}

func (l *consoleListener) OnStateChanged(serviceID string, state string) {
	l.logger.Debug("Service %s channel state: %s", serviceID, state)
}

func (l *consoleListener) OnProgress(serviceID string, update websocket.ProgressUpdate) {
	fmt.Fprintf(l.out, "[%3.0f%%] %s %s\n", update.Progress, update.CurrentStage, update.Message)
}

func (l *consoleListener) OnCompleted(serviceID string, result json.RawMessage) {
	fmt.Fprintf(l.out, "Service %s completed\n", serviceID)
	if len(result) > 0 && string(result) != "null" {
		if err := printJSON(l.out, result); err != nil {
			l.logger.Error("Failed to print result: %v", err)
		}
	}
}

func (l *consoleListener) OnException(serviceID string, err error) {
	fmt.Fprintf(l.out, "Service %s error: %v\n", serviceID, err)
}
