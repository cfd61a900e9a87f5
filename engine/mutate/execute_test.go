package mutate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/postgres"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
)

func TestExecuteCreate_NoNested(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := dsql.OpenDB(dialect.Postgres, db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO "users".*RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
			AddRow(int64(1), "ada", "ada@example.com", now, now))

	a := postgres.New()
	model := userModel()
	p, err := Plan(a, model, query.Create, &query.MutatePayload{
		Data: map[string]any{"name": "ada", "email": "ada@example.com"},
	})
	require.NoError(t, err)

	row, err := Execute(context.Background(), drv, p, now)
	require.NoError(t, err)
	assert.Equal(t, "ada", row["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := dsql.OpenDB(dialect.Postgres, db)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	a := postgres.New()
	model := userModel()
	p, err := Plan(a, model, query.Delete, &query.MutatePayload{
		Where: &query.Filter{Fields: map[string]query.FieldFilter{"id": {"equals": int64(1)}}},
	})
	require.NoError(t, err)

	_, err = Execute(context.Background(), drv, p, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlan_RejectsUnknownField(t *testing.T) {
	a := postgres.New()
	model := userModel()
	_, err := Plan(a, model, query.Create, &query.MutatePayload{Data: map[string]any{"nope": 1}})
	assert.Error(t, err)
}

func TestValidateWriteOp_RejectsToManyOnlyOpOnToOne(t *testing.T) {
	rel := &schema.RelationSpec{Name: "profile", Kind: schema.OneToOne}
	err := validateWriteOp(userModel(), rel, query.WriteUpdateMany)
	assert.Error(t, err)
}

func TestValidateWriteOp_AllowsCreateOnAnyCardinality(t *testing.T) {
	rel := &schema.RelationSpec{Name: "profile", Kind: schema.OneToOne}
	assert.NoError(t, validateWriteOp(userModel(), rel, query.WriteCreate))
}
