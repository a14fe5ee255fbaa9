// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces, using database/sql with the pgx driver. All errors
// leaving this package are mapped onto the store error taxonomy.
package postgres
