package config

import "github.com/urfave/cli/v3"

// State holds last-seen state store configuration. The JSON file backend is
// the default; setting a Firestore project switches to Firestore.
type State struct {
	Path                string
	FirestoreProject    string
	FirestoreCollection string
}

// Flags returns CLI flags for state store configuration
func (c *State) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "state-path",
			Usage:       "Path of the JSON state file",
			Value:       "lookout-state.json",
			Destination: &c.Path,
			Sources:     cli.EnvVars("LOOKOUT_STATE_PATH"),
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID for the Firestore state store",
			Destination: &c.FirestoreProject,
			Sources:     cli.EnvVars("LOOKOUT_FIRESTORE_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding last-seen records",
			Value:       "lookout-releases",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("LOOKOUT_FIRESTORE_COLLECTION"),
		},
	}
}
