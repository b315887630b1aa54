package config

import (
	"os"
	"strconv"

	"github.com/JaimeStill/dossier/pkg/queue"
)

var queueEnv = &queue.Env{
	Provider:    "DOSSIER_QUEUE_PROVIDER",
	Addr:        "DOSSIER_QUEUE_ADDR",
	Password:    "DOSSIER_QUEUE_PASSWORD",
	DB:          "DOSSIER_QUEUE_DB",
	Name:        "DOSSIER_QUEUE_NAME",
	Capacity:    "DOSSIER_QUEUE_CAPACITY",
	Workers:     "DOSSIER_QUEUE_WORKERS",
	PollTimeout: "DOSSIER_QUEUE_POLL_TIMEOUT",
}

const EnvQueueWorkersInline = "DOSSIER_QUEUE_WORKERS_INLINE"

// QueueConfig is the job queue plus where its workers run. With
// WorkersInline the server process consumes jobs itself; otherwise
// cmd/worker does.
type QueueConfig struct {
	queue.Config
	WorkersInline bool `toml:"workers_inline"`
}

func (c *QueueConfig) Finalize() error {
	if v := os.Getenv(EnvQueueWorkersInline); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.WorkersInline = b
		}
	}
	return c.Config.Finalize(queueEnv)
}

func (c *QueueConfig) Merge(overlay *QueueConfig) {
	c.Config.Merge(&overlay.Config)
	if overlay.WorkersInline {
		c.WorkersInline = true
	}
}
