package remote

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/concerto/internal/compiler"
	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/ports"
)

// Digest is the hex sha256 of the compact form of a JSON document, so that
// whitespace-only differences compare equal. Text that is not JSON is hashed as is.
func Digest(data []byte) string {
	normalized := data
	if v, err := compiler.NewParser().Parse(data); err == nil {
		if compact, err := json.Marshal(v); err == nil {
			normalized = compact
		}
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:])
}

// SyncResult describes what Sync did.
type SyncResult struct {
	Updated bool   // the store was written
	Created bool   // the store held no document before
	Digest  string // digest of the upstream document
}

// Sync copies the upstream document into the store when their digests
// differ, then reads it back to verify the write.
func Sync(ctx context.Context, upstream ports.MetamodelSource, store ports.MetamodelStore) (SyncResult, error) {
	remote, err := upstream.Load(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	res := SyncResult{Digest: Digest(remote)}

	local, err := store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrMetamodelNotFound):
		res.Created = true
	case err != nil:
		return res, fmt.Errorf("failed to read local metamodel: %w", err)
	case Digest(local) == res.Digest:
		return res, nil
	}

	if err := store.Save(ctx, remote); err != nil {
		return res, fmt.Errorf("failed to save metamodel: %w", err)
	}

	written, err := store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to verify metamodel: %w", err)
	}
	if !bytes.Equal(written, remote) && Digest(written) != res.Digest {
		return res, errors.New("verification failed: written metamodel does not match upstream")
	}

	res.Updated = true
	return res, nil
}
