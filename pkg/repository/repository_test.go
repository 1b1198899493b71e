package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/repository/firestore"
	"github.com/secmon-lab/issueboard/pkg/repository/memory"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

// newFirestoreRepository connects to the database named by TEST_FIRESTORE_PROJECT_ID
// and TEST_FIRESTORE_DATABASE_ID. Every call gets its own collection prefix so
// listings only see documents written by the same test.
func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	prefix := "test_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})

	return repo
}
