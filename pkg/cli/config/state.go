package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/infra/state"
)

const (
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
)

// State holds release state store configuration
type State struct {
	Backend string

	Dir        string
	SQLitePath string

	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string

	GCSBucket   string
	GCSPrefix   string
	GCSEndpoint string
}

// Flags returns CLI flags for state store configuration
func (c *State) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "state-backend",
			Usage:       "State store backend (file, sqlite, firestore, gcs)",
			Value:       BackendFile,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("RELEASEWATCH_STATE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "state-dir",
			Usage:       "Directory of state files for the file backend",
			Value:       "targets",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("RELEASEWATCH_STATE_DIR"),
		},
		&cli.StringFlag{
			Name:        "state-sqlite-path",
			Usage:       "Database path for the sqlite backend",
			Value:       "releasewatch.db",
			Destination: &c.SQLitePath,
			Sources:     cli.EnvVars("RELEASEWATCH_STATE_SQLITE_PATH"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project for the firestore backend",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("RELEASEWATCH_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("RELEASEWATCH_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection of release states",
			Value:       "release_states",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("RELEASEWATCH_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Bucket for the gcs backend",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("RELEASEWATCH_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix for the gcs backend",
			Value:       "targets/",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("RELEASEWATCH_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Storage API endpoint override, e.g. an emulator",
			Destination: &c.GCSEndpoint,
			Sources:     cli.EnvVars("RELEASEWATCH_GCS_ENDPOINT"),
		},
	}
}

// Validate checks the selected backend has what it needs
func (c *State) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.Dir == "" {
			return goerr.New("state-dir is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return goerr.New("state-sqlite-path is required for the sqlite backend")
		}
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return goerr.New("firestore-project-id is required for the firestore backend")
		}
	case BackendGCS:
		if c.GCSBucket == "" {
			return goerr.New("gcs-bucket is required for the gcs backend")
		}
	default:
		return goerr.New("unknown state backend", goerr.V("backend", c.Backend))
	}
	return nil
}

// NewStore opens the configured store. The returned function releases it.
func (c *State) NewStore(ctx context.Context) (interfaces.StateStore, func(), error) {
	nop := func() {}

	switch c.Backend {
	case BackendFile:
		return state.NewFile(c.Dir), nop, nil

	case BackendSQLite:
		store, err := state.NewSQLite(ctx, c.SQLitePath)
		if err != nil {
			return nil, nop, err
		}
		return store, func() { _ = store.Close() }, nil

	case BackendFirestore:
		store, err := state.NewFirestore(ctx, c.FirestoreProjectID, c.FirestoreDatabaseID, c.FirestoreCollection)
		if err != nil {
			return nil, nop, err
		}
		return store, func() { _ = store.Close() }, nil

	case BackendGCS:
		var opts []option.ClientOption
		if c.GCSEndpoint != "" {
			opts = append(opts, option.WithEndpoint(c.GCSEndpoint), option.WithoutAuthentication())
		}
		store, err := state.NewGCS(ctx, c.GCSBucket, c.GCSPrefix, opts...)
		if err != nil {
			return nil, nop, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	return nil, nop, goerr.New("unknown state backend", goerr.V("backend", c.Backend))
}
