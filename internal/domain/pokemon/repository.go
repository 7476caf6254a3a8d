package pokemon

import "context"

// Repository describes pokemon persistence needs from use cases.
//
// Import runs the whole per-record pipeline in one transaction: upsert
// keyed by external id, then relationship sync. Types, abilities and
// stats always reconcile with ReplaceAll; movePolicy picks how moves do.
type Repository interface {
	Import(ctx context.Context, rec Record, movePolicy SyncPolicy) (ImportResult, error)
	FindByExternalID(ctx context.Context, externalID int) (Record, bool, error)
	ExistsByExternalIDOrName(ctx context.Context, externalID int, name string) (bool, error)
	GetByExternalIDs(ctx context.Context, externalIDs []int) ([]Pokemon, error)
	List(ctx context.Context, sort Sort) ([]Summary, error)
	Page(ctx context.Context, sort Sort, limit, offset int) ([]Summary, int, error)
	Search(ctx context.Context, query string, limit int) ([]Summary, error)
	EntityCounts(ctx context.Context) (EntityCounts, error)
}
