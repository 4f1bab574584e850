package memstore

import (
	"context"
	"sort"
	"strings"

	"royalty-backend/internal/domains/author/model"
	"royalty-backend/internal/domains/author/repository"
	"royalty-backend/internal/shared/utils"
	"royalty-backend/pkg/database"
)

type authorView struct{ s *Store }

func (s *Store) Authors() repository.RepositoryInterface { return authorView{s} }

func (v authorView) Create(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error) {
	s := v.s
	if err := s.begin("authors.Create"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	for _, existing := range s.st.authors {
		if utils.FoldName(existing.Name) == utils.FoldName(a.Name) {
			return nil, model.ErrDuplicateName
		}
	}
	created := *a
	created.ID = s.id()
	created.CreatedAt, created.UpdatedAt = s.now(), s.now()
	s.st.authors[created.ID] = created
	return &created, nil
}

func (v authorView) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Author, error) {
	s := v.s
	if err := s.begin("authors.GetByID"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	a, ok := s.st.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	return &a, nil
}

func (v authorView) GetByIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]*model.Author, error) {
	s := v.s
	if err := s.begin("authors.GetByIDs"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make(map[int64]*model.Author, len(ids))
	for _, id := range ids {
		if a, ok := s.st.authors[id]; ok {
			out[id] = &a
		}
	}
	return out, nil
}

func (v authorView) GetByName(ctx context.Context, q database.Querier, name string) (*model.Author, error) {
	s := v.s
	if err := s.begin("authors.GetByName"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	for _, a := range s.st.authors {
		if utils.FoldName(a.Name) == utils.FoldName(name) {
			return &a, nil
		}
	}
	return nil, model.ErrAuthorNotFound
}

func (v authorView) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	s := v.s
	if err := s.begin("authors.List"); err != nil {
		return nil, 0, err
	}
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	var out []model.Author
	for _, a := range s.st.authors {
		if search == "" || strings.Contains(strings.ToLower(a.Name), search) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return pageOf(out, filter.Page), int64(len(out)), nil
}
