package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/sweeney/blinkd/internal/config"
	"github.com/sweeney/blinkd/internal/dispatch"
	"github.com/sweeney/blinkd/internal/logger"
	"github.com/sweeney/blinkd/internal/logic"
	"github.com/sweeney/blinkd/internal/mqtt"
	"github.com/sweeney/blinkd/internal/status"
)

// newPublisher connects to the configured broker. Telemetry is optional: with
// no broker, or when the broker is unreachable, presses are discarded.
func newPublisher(ctx context.Context, cfg *config.Config) mqtt.Publisher {
	log := logger.FromContext(ctx)
	if cfg.MQTT.Broker == "" {
		return mqtt.Discard{}
	}

	pub, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, log.Named("mqtt"))
	if err != nil {
		log.Warnw("mqtt disabled", "broker", cfg.MQTT.Broker, "error", err)
		return mqtt.Discard{}
	}
	return pub
}

// serve runs one dispatcher lifecycle and reports it. It returns nil whether
// the daemon stopped on a signal or on a fault; the log names which.
func serve(ctx context.Context, cfg *config.Config, platform dispatch.Platform, pub mqtt.Publisher) error {
	log := logger.FromContext(ctx)
	table, err := logic.NewIntervalTable(cfg.BlinkIntervals...)
	if err != nil {
		return err
	}

	d := dispatch.New(platform, dispatch.Options{
		PollInterval: cfg.PollInterval,
		Intervals:    table,
		SafeLevel:    cfg.SafeLevel(),
		Publisher:    pub,
		Status:       status.NewConfig(cfg.PollInterval, cfg.BlinkIntervals, cfg.MQTT.Broker, cfg.Display.Enabled),
		Logger:       log.Named("dispatch"),
	})

	if err := d.Initialize(); err == nil {
		publishSystem(pub, log, d.Snapshot(), "STARTUP", "")
		log.Infow("started", "poll", cfg.PollInterval, "intervals", cfg.BlinkIntervals, "broker", cfg.MQTT.Broker)
		d.Run()
	}
	d.Teardown()

	publishSystem(pub, log, d.Snapshot(), "SHUTDOWN", d.Reason())

	if err := d.Err(); err != nil {
		log.Errorw("stopped on fault", "error", err)
	} else {
		log.Infow("stopped", "reason", d.Reason())
	}
	return nil
}

func publishSystem(pub mqtt.Publisher, log *zap.SugaredLogger, snap status.Snapshot, event, reason string) {
	err := pub.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		log.Warnw("publish system event failed", "event", event, "error", err)
	}
}
