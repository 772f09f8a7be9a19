package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub API configuration
type GitHub struct {
	Token    string
	APIURL   string
	PageSize int
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Required:    true,
			Destination: &c.Token,
			Sources:     cli.EnvVars("LOOKOUT_GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("LOOKOUT_GITHUB_API_URL"),
		},
		&cli.IntFlag{
			Name:        "page-size",
			Usage:       "Page size when listing watched repositories",
			Value:       50,
			Destination: &c.PageSize,
			Sources:     cli.EnvVars("LOOKOUT_PAGE_SIZE"),
		},
	}
}
