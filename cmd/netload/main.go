// Command netload reports per-interface network throughput read from /proc/net/dev.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/urfave/cli/v2"

	"netload-agent/internal/agent"
	"netload-agent/internal/config"
	"netload-agent/internal/netdev"
	"netload-agent/internal/rate"
)

var statsPathFlag = &cli.StringFlag{
	Name:    "stats-path",
	Usage:   "network statistics `FILE`",
	Value:   netdev.DefaultStatsPath,
	EnvVars: []string{"NETLOAD_STATS_PATH"},
}

var app = &cli.App{
	Name:    "netload",
	Usage:   "Report network interface throughput.",
	Version: config.HardcodedVersion,
	Commands: []*cli.Command{
		{
			Name:  "devices",
			Usage: "List interfaces declared in the statistics file.",
			Flags: []cli.Flag{statsPathFlag},
			Action: func(c *cli.Context) error {
				for _, name := range netdev.ScanDevices(c.String("stats-path")) {
					fmt.Fprintln(c.App.Writer, name)
				}
				return nil
			},
		},
		{
			Name:  "sample",
			Usage: "Print throughput of one interface at a fixed interval.",
			Flags: []cli.Flag{
				statsPathFlag,
				&cli.StringFlag{
					Name:    "interface",
					Aliases: []string{"i"},
					Usage:   "interface `NAME`",
					Value:   netdev.DefaultInterface,
				},
				&cli.DurationFlag{
					Name:  "interval",
					Usage: "sampling interval",
					Value: time.Second,
				},
				&cli.IntFlag{
					Name:  "count",
					Usage: "number of samples, 0 for unlimited",
				},
			},
			Action: sample,
		},
		{
			Name:  "run",
			Usage: "Run the agent configured from NETLOAD_* environment variables.",
			Action: func(c *cli.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				a, err := agent.New(cfg, agent.BuildLogger(cfg))
				if err != nil {
					return fmt.Errorf("agent initialization: %w", err)
				}
				return a.Run(c.Context)
			},
		},
	},
}

func sample(c *cli.Context) error {
	interval := c.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	s := netdev.NewSampler(c.String("stats-path"), c.String("interface"))
	if !s.IsDeviceUp() {
		fmt.Fprintf(c.App.ErrWriter, "%s: interface not found in %s\n", s.DeviceName(), s.Path())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; c.Int("count") <= 0 || n < c.Int("count"); n++ {
		select {
		case <-c.Context.Done():
			return nil
		case <-ticker.C:
		}
		bps := s.BytesPerSecond()
		fmt.Fprintf(c.App.Writer, "%s up=%t %s %s rx=%s tx=%s total=%s\n",
			s.DeviceName(),
			s.IsDeviceUp(),
			rate.FormatBytes(bps),
			rate.FormatBits(bps),
			rate.FormatBytes(s.RxBytesPerSecond()),
			rate.FormatBytes(s.TxBytesPerSecond()),
			units.HumanSize(float64(s.BytesSinceStartup())),
		)
	}
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("netload: %v", err)
	}
}
