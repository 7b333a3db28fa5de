package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

func TestFindCustomerByCode(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	rows := sqlmock.NewRows(customerColumns).AddRow(
		1, "1001", "Ada", "shipsecabc", "shipsecsigdef",
		"c@example.com", "1 Main St", "", "Toronto", "ON", "Canada", "M1M 1M1",
	)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE simple_code = \$1 OR signature_code = \$2`).
		WithArgs("shipsecabc", "shipsecabc").
		WillReturnRows(rows)

	customer, err := customersStore.FindCustomerByCode("shipsecabc")
	require.NoError(t, err)
	assert.Equal(t, "1001", customer.ShopifyCustomerID)
	assert.Equal(t, "shipsecabc", customer.SimpleCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCustomerByCodeNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	_, err := customersStore.FindCustomerByCode("nope")
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}

func TestGetCustomerByShopifyID(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	rows := sqlmock.NewRows(customerColumns).AddRow(
		7, "1001", "Ada", "a", "b", "c@example.com", "1 Main St", "", "Toronto", "ON", "Canada", "M1M 1M1",
	)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE shopify_customer_id = \$1`).
		WithArgs("1001").
		WillReturnRows(rows)

	customer, err := customersStore.GetCustomerByShopifyID("1001")
	require.NoError(t, err)
	assert.Equal(t, int64(7), customer.ID)
}

func TestCreateCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := customersStore.CreateCustomer(&model.Customer{
		ShopifyCustomerID: "1001",
		CustomerName:      "Ada",
		SimpleCode:        "shipsecabc",
		SignatureCode:     "shipsecsigdef",
		Email:             "c@example.com",
		Address1:          "1 Main St",
		City:              "Toronto",
		Province:          "ON",
		Country:           "Canada",
		Zip:               "M1M 1M1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomerDuplicate(t *testing.T) {
	// The production connection goes through the pgx-based GORM driver, so
	// unique violations arrive as *pgconn.PgError. The lib/pq shape is kept
	// covered for sessions opened on that driver.
	tests := []struct {
		name      string
		driverErr error
	}{
		{"pgx driver", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}},
		{"pq driver", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			customersStore := NewCustomersStore(db)

			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO "customers"`).
				WillReturnError(tt.driverErr)
			mock.ExpectRollback()

			err := customersStore.CreateCustomer(&model.Customer{ShopifyCustomerID: "1001"})
			assert.ErrorIs(t, err, store.ErrCustomerExists)
		})
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	customersStore := NewCustomersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "customers"`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := customersStore.DeleteCustomer(42)
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}
