package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const tokensCollection = "tokens"

func (f *Firestore) tokenDoc(id auth.TokenID) *firestore.DocumentRef {
	return f.client.Collection(f.collection(tokensCollection)).Doc(id.String())
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	if _, err := f.tokenDoc(token.ID).Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to save token", goerr.V("token_id", token.ID))
	}
	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	docSnap, err := f.tokenDoc(tokenID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token", goerr.V("token_id", tokenID))
	}

	var token auth.Token
	if err := docSnap.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token", goerr.V("token_id", tokenID))
	}
	return &token, nil
}

// DeleteToken removes the token in one write; the Exists precondition turns a
// missing document into NotFound.
func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	if _, err := f.tokenDoc(tokenID).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return goerr.Wrap(err, "failed to delete token", goerr.V("token_id", tokenID))
	}
	return nil
}

func (f *Firestore) PruneTokens(ctx context.Context, before time.Time) (int, error) {
	iter := f.client.Collection(f.collection(tokensCollection)).
		Where("expires_at", "<", before).
		Documents(ctx)
	defer iter.Stop()

	bw := f.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to iterate tokens")
		}

		var token auth.Token
		if err := docSnap.DataTo(&token); err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to decode token", goerr.V("doc_id", docSnap.Ref.ID))
		}
		if token.ExpiresAt.IsZero() {
			continue
		}

		job, err := bw.Delete(docSnap.Ref)
		if err != nil {
			bw.End()
			return 0, goerr.Wrap(err, "failed to queue token deletion", goerr.V("doc_id", docSnap.Ref.ID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	pruned := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return pruned, goerr.Wrap(err, "failed to delete expired token")
		}
		pruned++
	}
	return pruned, nil
}
