package sqlite

import (
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/verr"
)

// unsupportedVector satisfies dialect.Vector: SQLite has no vector type.
type unsupportedVector struct{}

func (unsupportedVector) VectorLiteral(values []float64) dsql.Sql { return dsql.Empty }

func (unsupportedVector) L2(col, vec dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Vector.L2")
}

func (unsupportedVector) Cosine(col, vec dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Vector.Cosine")
}

// unsupportedGeospatial satisfies dialect.Geospatial: SQLite has no
// geometry type without the (unbundled) SpatiaLite extension.
type unsupportedGeospatial struct{}

func (unsupportedGeospatial) Point(lng, lat float64) dsql.Sql { return dsql.Empty }

func (unsupportedGeospatial) Equals(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Equals")
}

func (unsupportedGeospatial) Intersects(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Intersects")
}

func (unsupportedGeospatial) Contains(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Contains")
}

func (unsupportedGeospatial) Within(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Within")
}

func (unsupportedGeospatial) Crosses(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Crosses")
}

func (unsupportedGeospatial) Overlaps(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Overlaps")
}

func (unsupportedGeospatial) Touches(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Touches")
}

func (unsupportedGeospatial) Covers(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.Covers")
}

func (unsupportedGeospatial) DWithin(a, b dsql.Sql, distance float64) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("sqlite", "Geospatial.DWithin")
}
