package adapters

import (
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

func MapAPIDataSourceToDomain(d api.DataSource) domain.DataSource {
	return domain.DataSource{
		ID:               d.ID,
		Name:             d.Name,
		DBType:           d.DBType,
		Host:             d.Host,
		Port:             d.Port,
		Database:         d.Database,
		Username:         d.Username,
		ConnectionStatus: d.ConnectionStatus,
		LastTested:       d.LastTested,
		IsActive:         d.IsActive,
	}
}

func MapAPIForeignKeyToDomain(fk api.ForeignKey) domain.ForeignKey {
	return domain.ForeignKey{
		Name:               fk.Name,
		ConstrainedColumns: fk.ConstrainedColumns,
		ReferredTable:      fk.ReferredTable,
		ReferredColumns:    fk.ReferredColumns,
	}
}

func MapDomainForeignKeyToAPI(fk domain.ForeignKey) api.ForeignKey {
	return api.ForeignKey{
		Name:               fk.Name,
		ConstrainedColumns: nonNil(fk.ConstrainedColumns),
		ReferredTable:      fk.ReferredTable,
		ReferredColumns:    nonNil(fk.ReferredColumns),
	}
}

func MapAPISchemaToDomain(s api.Schema) domain.Schema {
	columns := make(map[string][]domain.Column, len(s.ColumnsByTable))
	for table, cols := range s.ColumnsByTable {
		columns[table] = mapSlice(cols, MapAPIColumnToDomain)
	}
	fks := make(map[string][]domain.ForeignKey, len(s.ForeignKeys))
	for table, keys := range s.ForeignKeys {
		fks[table] = mapSlice(keys, MapAPIForeignKeyToDomain)
	}
	return domain.Schema{
		Tables:                 s.Tables,
		Views:                  s.Views,
		ColumnsByTable:         columns,
		ForeignKeys:            fks,
		SuggestedRelationships: mapSlice(s.SuggestedRelationships, MapAPIRelationshipToDomain),
	}
}

func MapDomainSchemaToAPI(s domain.Schema) api.Schema {
	columns := make(map[string][]api.Column, len(s.ColumnsByTable))
	for table, cols := range s.ColumnsByTable {
		columns[table] = mapSlice(cols, MapDomainColumnToAPI)
	}
	fks := make(map[string][]api.ForeignKey, len(s.ForeignKeys))
	for table, keys := range s.ForeignKeys {
		fks[table] = mapSlice(keys, MapDomainForeignKeyToAPI)
	}
	return api.Schema{
		Tables:                 nonNil(s.Tables),
		Views:                  nonNil(s.Views),
		Procedures:             []string{},
		ColumnsByTable:         columns,
		ForeignKeys:            fks,
		SuggestedRelationships: nonNil(mapSlice(s.SuggestedRelationships, MapDomainRelationshipToAPI)),
	}
}
