package state

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

type firestoreRecord struct {
	Owner     string    `firestore:"owner"`
	Name      string    `firestore:"name"`
	TagName   string    `firestore:"tag_name"`
	HTMLURL   string    `firestore:"html_url"`
	Payload   string    `firestore:"payload"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// FirestoreStore keeps one document per repository in a collection
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore connects to the given project and database
func NewFirestore(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (*FirestoreStore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.T(types.ErrTagStorage),
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	return &FirestoreStore{
		client:     client,
		collection: collection,
	}, nil
}

// Close releases the firestore client
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) doc(repo model.TrackedRepository) (*firestore.DocumentRef, error) {
	key, err := recordKey(repo)
	if err != nil {
		return nil, err
	}
	return s.client.Collection(s.collection).Doc(key), nil
}

func (s *FirestoreStore) Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	ref, err := s.doc(repo)
	if err != nil {
		return nil, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get release state document",
			goerr.T(types.ErrTagStorage), goerr.V("repo", repo.FullName()))
	}

	var rec firestoreRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(err, "corrupt release state document",
			goerr.T(types.ErrTagStorage), goerr.V("repo", repo.FullName()))
	}

	desc, err := decodeDescriptor([]byte(rec.Payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load release state document", goerr.V("repo", repo.FullName()))
	}
	return desc, nil
}

func (s *FirestoreStore) Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error {
	ref, err := s.doc(repo)
	if err != nil {
		return err
	}

	data, err := encodeDescriptor(desc)
	if err != nil {
		return err
	}

	rec := firestoreRecord{
		Owner:     repo.Owner,
		Name:      repo.Name,
		TagName:   desc.TagName,
		HTMLURL:   desc.HTMLURL,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := ref.Set(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to set release state document",
			goerr.T(types.ErrTagStorage), goerr.V("repo", repo.FullName()))
	}
	return nil
}
