package firestore

import "github.com/secmon-lab/issueboard/pkg/domain/interfaces"

var (
	ErrNotFound = interfaces.ErrNotFound
)
