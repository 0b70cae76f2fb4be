package enrich

import (
	"context"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
)

//go:generate mockgen -source=pages.go -destination=../testutils/mocks/enrich/pages.go -package=enrich

// PageSource loads one page of a lead's site.
type PageSource interface {
	FetchContactPage(ctx context.Context, pageURL string) (walker.ContactPage, error)
}
