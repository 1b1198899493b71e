package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
)

// DefaultDatabaseID selects the project's default database
const DefaultDatabaseID = firestore.DefaultDatabaseID

// CollectionName returns name with prefix applied, as used by WithCollectionPrefix
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

type Firestore struct {
	client           *firestore.Client
	issue            *issueRepository
	collectionPrefix string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends prefix to every collection name. Tests use it
// to keep their data apart from a live database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
		f.issue.collectionPrefix = prefix
	}
}

// New connects to the Firestore database. An empty databaseID selects the
// project's default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client: client,
		issue:  newIssueRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Issue() interfaces.IssueRepository {
	return f.issue
}

func (f *Firestore) collection(name string) string {
	return CollectionName(f.collectionPrefix, name)
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
