// Package export defines the outbound ports for mirroring recorded
// transactions to an external spreadsheet.
package export

import (
	"context"

	"budgetboard/internal/core"
)

type (
	// TransactionAppender appends one transaction row to the export target
	// and returns an opaque row reference.
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// CatalogReader lists the category catalog kept on the export target, in
	// sheet order.
	CatalogReader interface {
		ListCatalog(ctx context.Context) ([]core.CatalogEntry, error)
	}
)
