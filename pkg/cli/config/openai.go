package config

import "github.com/urfave/cli/v3"

// OpenAI holds OpenAI LLM configuration
type OpenAI struct {
	APIKey      string
	Model       string
	SummaryLang string
}

// Flags returns CLI flags for OpenAI configuration
func (c *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Required:    true,
			Destination: &c.APIKey,
			Sources:     cli.EnvVars("LOOKOUT_OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model used for release summaries",
			Value:       "gpt-4o-mini",
			Destination: &c.Model,
			Sources:     cli.EnvVars("LOOKOUT_OPENAI_MODEL"),
		},
		&cli.StringFlag{
			Name:        "summary-lang",
			Usage:       "Language for release summaries",
			Value:       "English",
			Destination: &c.SummaryLang,
			Sources:     cli.EnvVars("LOOKOUT_SUMMARY_LANG"),
		},
	}
}
