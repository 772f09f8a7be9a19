package config

import "github.com/urfave/cli/v3"

// Report holds report destination configuration. The local directory is
// always written; GCS and Slack are enabled when configured.
type Report struct {
	Dir          string
	Bucket       string
	Prefix       string
	SlackWebhook string
}

// Flags returns CLI flags for report configuration
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-dir",
			Usage:       "Directory for markdown report files",
			Value:       "reports",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("LOOKOUT_REPORT_DIR"),
		},
		&cli.StringFlag{
			Name:        "report-bucket",
			Usage:       "GCS bucket for report files",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("LOOKOUT_REPORT_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "report-prefix",
			Usage:       "Object prefix inside the report bucket",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("LOOKOUT_REPORT_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "slack-webhook",
			Usage:       "Slack incoming webhook URL for report notifications",
			Destination: &c.SlackWebhook,
			Sources:     cli.EnvVars("LOOKOUT_SLACK_WEBHOOK"),
		},
	}
}
