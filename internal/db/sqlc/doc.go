// Package sqlcgen is the typed query layer over db/queries. The files follow
// sqlc's pgx/v5 output for sqlc.yaml and are kept in sync by hand until the
// next regeneration.
package sqlcgen

//go:generate sqlc generate -f ../../../sqlc.yaml
