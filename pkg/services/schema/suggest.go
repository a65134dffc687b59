package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

// SuggestRelationships proposes joins between tables. Declared foreign keys
// come first with high confidence; then every ordered pair of tables (t1 < t2)
// is checked for id / <table>_id naming conventions, skipping pairs already
// covered by an earlier suggestion.
func SuggestRelationships(
	tables []string,
	columnsByTable map[string][]domain.Column,
	foreignKeys map[string][]domain.ForeignKey,
) []domain.Relationship {
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t] = true
	}

	var suggestions []domain.Relationship
	for _, table := range tables {
		for _, fk := range foreignKeys[table] {
			if !known[fk.ReferredTable] {
				continue
			}
			suggestions = append(suggestions, domain.Relationship{
				SourceTable:   table,
				TargetTable:   fk.ReferredTable,
				SourceColumns: fk.ConstrainedColumns,
				TargetColumns: fk.ReferredColumns,
				JoinType:      domain.JoinTypeLeft,
				Confidence:    domain.ConfidenceHigh,
				Reason:        domain.ReasonForeignKey,
				Description: fmt.Sprintf("Foreign key relationship: %s.%s → %s.%s",
					table, strings.Join(fk.ConstrainedColumns, ","),
					fk.ReferredTable, strings.Join(fk.ReferredColumns, ",")),
			})
		}
	}

	for _, t1 := range tables {
		cols1 := columnSet(columnsByTable[t1])
		for _, t2 := range tables {
			if t1 >= t2 {
				continue
			}
			cols2 := columnSet(columnsByTable[t2])

			patterns := [][2]string{
				{"id", t1 + "_id"},
				{t2 + "_id", "id"},
				{"id", singular(t1) + "_id"},
				{singular(t2) + "_id", "id"},
			}
			for _, p := range patterns {
				c1, c2 := p[0], p[1]
				if !cols1[c1] || !cols2[c2] {
					continue
				}
				if covered(suggestions, t1, t2, c1, c2) {
					continue
				}
				suggestions = append(suggestions, domain.Relationship{
					SourceTable:   t1,
					TargetTable:   t2,
					SourceColumns: []string{c1},
					TargetColumns: []string{c2},
					JoinType:      domain.JoinTypeLeft,
					Confidence:    domain.ConfidenceMedium,
					Reason:        domain.ReasonNamingPattern,
					Description:   fmt.Sprintf("Suggested based on naming pattern: %s.%s → %s.%s", t1, c1, t2, c2),
				})
			}
		}
	}
	return suggestions
}

func covered(suggestions []domain.Relationship, source, target, c1, c2 string) bool {
	for _, s := range suggestions {
		if s.SourceTable == source && s.TargetTable == target &&
			slices.Contains(s.SourceColumns, c1) && slices.Contains(s.TargetColumns, c2) {
			return true
		}
	}
	return false
}

func columnSet(cols []domain.Column) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c.Name] = true
	}
	return set
}

// singular drops one trailing "s"; it is a naming heuristic, not a stemmer.
func singular(table string) string {
	return strings.TrimSuffix(table, "s")
}
