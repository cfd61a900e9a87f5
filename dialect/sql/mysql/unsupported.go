package mysql

import (
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/verr"
)

// unsupportedVector satisfies dialect.Vector for a dialect with no vector
// type; every method that can return an error does, and VectorLiteral
// (which cannot, per the interface) renders an empty fragment.
type unsupportedVector struct{}

func (unsupportedVector) VectorLiteral(values []float64) dsql.Sql { return dsql.Empty }

func (unsupportedVector) L2(col, vec dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Vector.L2")
}

func (unsupportedVector) Cosine(col, vec dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Vector.Cosine")
}

// unsupportedGeospatial satisfies dialect.Geospatial for a dialect with no
// geometry type.
type unsupportedGeospatial struct{}

func (unsupportedGeospatial) Point(lng, lat float64) dsql.Sql { return dsql.Empty }

func (unsupportedGeospatial) Equals(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Equals")
}

func (unsupportedGeospatial) Intersects(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Intersects")
}

func (unsupportedGeospatial) Contains(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Contains")
}

func (unsupportedGeospatial) Within(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Within")
}

func (unsupportedGeospatial) Crosses(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Crosses")
}

func (unsupportedGeospatial) Overlaps(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Overlaps")
}

func (unsupportedGeospatial) Touches(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Touches")
}

func (unsupportedGeospatial) Covers(a, b dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.Covers")
}

func (unsupportedGeospatial) DWithin(a, b dsql.Sql, distance float64) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Geospatial.DWithin")
}
