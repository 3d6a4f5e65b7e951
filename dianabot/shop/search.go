package shop

import (
	"context"
	"strings"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/sahilm/fuzzy"
)

// searchCorpus adapts shop items to the fuzzy matcher.
type searchCorpus []*models.ShopItem

func (c searchCorpus) String(i int) string {
	return c[i].Name + " " + c[i].Slug + " " + c[i].Description
}

func (c searchCorpus) Len() int { return len(c) }

// Search ranks active items against a free-text query. Exact slug hits win
// outright; everything else is fuzzy-ranked.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*models.ShopItem, error) {
	items, err := s.shop.GetActiveItems(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	for _, item := range items {
		if strings.EqualFold(item.Slug, query) {
			return []*models.ShopItem{item}, nil
		}
	}

	matches := fuzzy.FindFrom(query, searchCorpus(items))
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	out := make([]*models.ShopItem, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, items[m.Index])
	}
	return out, nil
}
