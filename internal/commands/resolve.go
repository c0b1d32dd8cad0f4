package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/balkashynov/vibetrack/internal/models"
)

// DisciplineLister lists all disciplines
type DisciplineLister interface {
	ListDisciplines(ctx context.Context) ([]models.Discipline, error)
}

// resolveDiscipline finds a discipline by id, exact name, or a unique best fuzzy match
func resolveDiscipline(ctx context.Context, store DisciplineLister, arg string) (*models.Discipline, error) {
	disciplines, err := store.ListDisciplines(ctx)
	if err != nil {
		return nil, err
	}
	if len(disciplines) == 0 {
		return nil, fmt.Errorf("no disciplines yet; create one with 'vibetrack discipline add <name>'")
	}

	arg = strings.TrimSpace(arg)

	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		for i := range disciplines {
			if disciplines[i].ID == uint(id) {
				return &disciplines[i], nil
			}
		}
	}

	for i := range disciplines {
		if disciplines[i].Name == arg {
			return &disciplines[i], nil
		}
	}

	names := make([]string, len(disciplines))
	for i, d := range disciplines {
		names[i] = d.Name
	}

	matches := fuzzy.Find(arg, names)
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("no discipline matches %q: %w", arg, models.ErrNotFound)
	case len(matches) == 1 || matches[0].Score > matches[1].Score:
		return &disciplines[matches[0].Index], nil
	}

	candidates := make([]string, 0, 3)
	for _, m := range matches[:min(3, len(matches))] {
		candidates = append(candidates, m.Str)
	}
	return nil, fmt.Errorf("%q is ambiguous: %s", arg, strings.Join(candidates, ", "))
}
